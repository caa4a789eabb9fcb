package queue

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/ports"
)

// Dispatcher applies terminal queue events to the task registry and
// notifies subscribed clients. The registry transition is a
// compare-and-set, so redelivered or already-settled events are no-ops
// and clients see at most one terminal notification per task.
type Dispatcher struct {
	registry ports.TaskRegistry
	notifier ports.Notifier
	logger   zerolog.Logger
}

// NewDispatcher creates a terminal-event dispatcher
func NewDispatcher(registry ports.TaskRegistry, notifier ports.Notifier, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleCompleted consumes one completion event
func (d *Dispatcher) HandleCompleted(msg *message.Message) error {
	var completed TaskCompleted
	if err := json.Unmarshal(msg.Payload, &completed); err != nil {
		d.logger.Error().Err(err).Msg("malformed completion event")
		// Not retryable, drop it
		return nil
	}

	if d.registry.Complete(completed.TaskID, completed.Hash) {
		d.notifier.PublishCompleted(completed.TaskID, completed.Hash)
		d.logger.Info().
			Str("task_id", completed.TaskID).
			Str("hash", completed.Hash).
			Msg("task completed")
	}

	return nil
}

// HandleFailed consumes one poisoned submission. The payload is the
// original work item; the failure reason travels in message metadata.
func (d *Dispatcher) HandleFailed(msg *message.Message) error {
	var submitted TaskSubmitted
	if err := json.Unmarshal(msg.Payload, &submitted); err != nil {
		d.logger.Error().Err(err).Msg("malformed failed submission")
		return nil
	}

	reason := msg.Metadata.Get(middleware.ReasonForPoisonedKey)
	if reason == "" {
		reason = "task processing failed"
	}

	if d.registry.Fail(submitted.TaskID, reason) {
		d.notifier.PublishFailed(submitted.TaskID, reason)
		d.logger.Warn().
			Str("task_id", submitted.TaskID).
			Str("reason", reason).
			Msg("task failed")
	}

	return nil
}
