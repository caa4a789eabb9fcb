package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/ports"
)

// CreationVerifier checks that an on-chain transaction anchors an
// artifact hash
type CreationVerifier interface {
	VerifyCreation(ctx context.Context, expectedHash, txHash string) bool
}

// TargetService owns the goal-processing pipeline: submission, status
// and on-chain verification.
type TargetService struct {
	registry  ports.TaskRegistry
	publisher ports.TaskPublisher
	generator ports.Generator
	notifier  ports.Notifier
	verifier  CreationVerifier
	logger    zerolog.Logger
}

// NewTargetService creates a new target service
func NewTargetService(
	registry ports.TaskRegistry,
	publisher ports.TaskPublisher,
	generator ports.Generator,
	notifier ports.Notifier,
	verifier CreationVerifier,
	logger zerolog.Logger,
) *TargetService {
	return &TargetService{
		registry:  registry,
		publisher: publisher,
		generator: generator,
		notifier:  notifier,
		verifier:  verifier,
		logger:    logger,
	}
}

// CreateTarget accepts a goal submission. The registry entry is written
// before the work is enqueued, so a status poll racing the submission
// always finds it. Completion is decoupled: failures of the work itself
// never surface on this call.
func (s *TargetService) CreateTarget(ctx context.Context, goal string, days int, requester string) (string, error) {
	if strings.TrimSpace(goal) == "" {
		return "", fmt.Errorf("goal must not be empty: %w", core.ErrInvalidInput)
	}
	if days < 1 {
		return "", fmt.Errorf("days must be positive: %w", core.ErrInvalidInput)
	}

	now := time.Now()
	task := &core.Task{
		ID:        uuid.New().String(),
		Goal:      goal,
		Days:      days,
		Requester: strings.ToLower(requester),
		Status:    core.TaskProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.registry.Put(task)

	if err := s.publisher.PublishSubmission(task); err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	// Second completion path: run the generation inline so the result
	// lands without waiting on the queue's event loop. Both paths race
	// on the registry's write-once terminal transition; the loser is a
	// no-op.
	go s.runInline(task.ID, goal, days)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("requester", task.Requester).
		Str("goal", goal).
		Int("days", days).
		Msg("task submitted")

	return task.ID, nil
}

func (s *TargetService) runInline(taskID, goal string, days int) {
	hash, err := s.generator.Generate(context.Background(), goal, days)
	if err != nil {
		if s.registry.Fail(taskID, err.Error()) {
			s.notifier.PublishFailed(taskID, err.Error())
			s.logger.Warn().Str("task_id", taskID).Err(err).Msg("inline generation failed")
		}
		return
	}

	if s.registry.Complete(taskID, hash) {
		s.notifier.PublishCompleted(taskID, hash)
		s.logger.Info().Str("task_id", taskID).Str("hash", hash).Msg("inline generation completed")
	}
}

// GetStatus returns the current task snapshot
func (s *TargetService) GetStatus(taskID string) (core.Task, bool) {
	return s.registry.Get(taskID)
}

// VerifyCreation checks the submitted transaction against the artifact
// hash. Mismatches are a semantic false, never an error.
func (s *TargetService) VerifyCreation(ctx context.Context, hash, txHash string) bool {
	return s.verifier.VerifyCreation(ctx, hash, txHash)
}
