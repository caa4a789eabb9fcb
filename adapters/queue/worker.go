package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/ports"
)

// WorkerConfig bounds the execution attempts per submission
type WorkerConfig struct {
	// Attempts is the total number of executions before the submission
	// is parked on the failed topic
	Attempts int

	// RetryInterval is the initial backoff between attempts
	RetryInterval time.Duration
}

// DefaultWorkerConfig mirrors the submission contract: at most 3
// execution attempts per task.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Attempts:      3,
		RetryInterval: time.Second,
	}
}

// Worker executes queued submissions against the generation collaborator
type Worker struct {
	generator ports.Generator
	logger    zerolog.Logger
}

// NewWorker creates a task worker
func NewWorker(generator ports.Generator, logger zerolog.Logger) *Worker {
	return &Worker{
		generator: generator,
		logger:    logger,
	}
}

// Handle processes one submission and emits the completion event. Any
// error is retried by the router middleware; exhausting the attempts
// parks the original submission on the failed topic.
func (w *Worker) Handle(msg *message.Message) ([]*message.Message, error) {
	var submitted TaskSubmitted
	if err := json.Unmarshal(msg.Payload, &submitted); err != nil {
		return nil, fmt.Errorf("malformed submission payload: %w", err)
	}

	w.logger.Info().
		Str("task_id", submitted.TaskID).
		Str("goal", submitted.Goal).
		Msg("processing task")

	hash, err := w.generator.Generate(msg.Context(), submitted.Goal, submitted.Days)
	if err != nil {
		w.logger.Warn().
			Str("task_id", submitted.TaskID).
			Err(err).
			Msg("task attempt failed")
		return nil, err
	}

	payload, err := json.Marshal(TaskCompleted{TaskID: submitted.TaskID, Hash: hash})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion: %w", err)
	}

	return []*message.Message{message.NewMessage(watermill.NewUUID(), payload)}, nil
}

// NewRouter wires the worker and dispatcher handlers onto a watermill
// router: submissions flow through the worker (with bounded retries and
// a poison queue on the failed topic), terminal events flow through the
// dispatcher into the registry and the notification hub.
func NewRouter(
	cfg WorkerConfig,
	subscriber message.Subscriber,
	publisher message.Publisher,
	worker *Worker,
	dispatcher *Dispatcher,
	wmLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)

	poison, err := middleware.PoisonQueue(publisher, TopicFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to create poison queue: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      cfg.Attempts - 1,
		InitialInterval: cfg.RetryInterval,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
		Logger:          wmLogger,
	}

	workerHandler := router.AddHandler(
		"task_worker",
		TopicSubmitted,
		subscriber,
		TopicCompleted,
		publisher,
		worker.Handle,
	)
	// Poison must wrap retry so only exhausted submissions are parked
	workerHandler.AddMiddleware(poison, retry.Middleware)

	router.AddNoPublisherHandler(
		"completion_dispatcher",
		TopicCompleted,
		subscriber,
		dispatcher.HandleCompleted,
	)

	router.AddNoPublisherHandler(
		"failure_dispatcher",
		TopicFailed,
		subscriber,
		dispatcher.HandleFailed,
	)

	return router, nil
}
