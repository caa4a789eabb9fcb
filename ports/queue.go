package ports

import "github.com/pathmint/waypoint/core"

// TaskPublisher enqueues accepted submissions onto the durable work queue
type TaskPublisher interface {
	PublishSubmission(task *core.Task) error
}
