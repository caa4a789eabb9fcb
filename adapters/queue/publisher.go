package queue

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/ports"
)

// Publisher enqueues task submissions
type Publisher struct {
	publisher message.Publisher
}

// NewPublisher creates a submission publisher
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

var _ ports.TaskPublisher = (*Publisher)(nil)

// PublishSubmission puts one work item on the submission topic. The
// message uuid is the task id so retries stay correlated in the stream.
func (p *Publisher) PublishSubmission(task *core.Task) error {
	event := TaskSubmitted{
		TaskID:    task.ID,
		Goal:      task.Goal,
		Days:      task.Days,
		Requester: task.Requester,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	msg := message.NewMessage(task.ID, payload)

	if err := p.publisher.Publish(TopicSubmitted, msg); err != nil {
		return fmt.Errorf("failed to publish submission: %w", err)
	}

	return nil
}
