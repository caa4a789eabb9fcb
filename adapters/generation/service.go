// Package generation composes the external collaborators that turn a
// learning goal into a stored artifact reference.
package generation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/ports"
)

// Service generates a course plan and pins it to content-addressable
// storage, returning the content id as the artifact reference.
type Service struct {
	planner   ports.Planner
	artifacts ports.ArtifactStore
	logger    zerolog.Logger
}

// NewService creates a generation service
func NewService(planner ports.Planner, artifacts ports.ArtifactStore, logger zerolog.Logger) *Service {
	return &Service{
		planner:   planner,
		artifacts: artifacts,
		logger:    logger,
	}
}

var _ ports.Generator = (*Service)(nil)

// Generate produces and stores the plan for a goal
func (s *Service) Generate(ctx context.Context, goal string, days int) (string, error) {
	plan, err := s.planner.Plan(ctx, goal, days)
	if err != nil {
		return "", &core.GenerationError{Stage: "plan", Err: err}
	}

	cid, err := s.artifacts.Add(ctx, plan)
	if err != nil {
		return "", &core.GenerationError{Stage: "pin", Err: err}
	}

	s.logger.Info().
		Str("goal", goal).
		Int("days", days).
		Str("cid", cid).
		Msg("generated plan artifact")

	return cid, nil
}
