package queue

// Topic layout: submissions are consumed by the worker, terminal events
// by the dispatcher. Completed messages are acked away; exhausted
// submissions are parked on the failed topic for inspection.
const (
	TopicSubmitted = "tasks.submitted"
	TopicCompleted = "tasks.completed"
	TopicFailed    = "tasks.failed"
)

// TaskSubmitted is the work item for one goal submission
type TaskSubmitted struct {
	TaskID    string `json:"taskId"`
	Goal      string `json:"goal"`
	Days      int    `json:"days"`
	Requester string `json:"requester"`
}

// TaskCompleted carries the artifact hash of a finished task
type TaskCompleted struct {
	TaskID string `json:"taskId"`
	Hash   string `json:"hash"`
}
