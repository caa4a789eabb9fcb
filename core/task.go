package core

import "time"

// TaskStatus is the lifecycle state of a goal-processing task
type TaskStatus string

const (
	// TaskProcessing is the initial state, set synchronously at submission
	TaskProcessing TaskStatus = "processing"

	// TaskCompleted is the terminal success state
	TaskCompleted TaskStatus = "completed"

	// TaskFailed is the terminal failure state
	TaskFailed TaskStatus = "failed"
)

// Terminal reports whether no further transitions are permitted
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// Task is one unit of asynchronous goal-processing work
type Task struct {
	ID        string     // Unique task identifier
	Goal      string     // The learning goal as submitted
	Days      int        // Requested plan length in days
	Requester string     // Wallet address of the submitter, lowercased
	Status    TaskStatus // Current lifecycle state
	Hash      string     // Artifact content hash, set on completion
	Error     string     // Failure message, set on failure
	CreatedAt time.Time  // When the task was submitted
	UpdatedAt time.Time  // When the status last changed
}
