package ports

import "github.com/pathmint/waypoint/core"

// TaskRegistry is the source of truth for task status. Terminal writes are
// compare-and-set: they succeed only while the task is still processing,
// so duplicate completion paths collapse to a single transition.
type TaskRegistry interface {
	// Put registers a new task entry
	Put(task *core.Task)

	// Get returns a snapshot of the task entry
	Get(taskID string) (core.Task, bool)

	// Complete transitions the task to completed with the artifact hash.
	// Returns false if the task is unknown or already terminal.
	Complete(taskID, hash string) bool

	// Fail transitions the task to failed with the error message.
	// Returns false if the task is unknown or already terminal.
	Fail(taskID, errMsg string) bool
}
