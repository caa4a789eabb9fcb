package ports

import "context"

// Planner is the AI collaborator that expands a learning goal into a
// course plan document. May take seconds to minutes.
type Planner interface {
	Plan(ctx context.Context, goal string, days int) ([]byte, error)
}

// ArtifactStore is the content-addressable storage collaborator. Add
// returns a content identifier usable to retrieve the payload later.
type ArtifactStore interface {
	Add(ctx context.Context, payload []byte) (string, error)
}

// Generator turns a goal into a stored artifact reference. The task
// worker only cares about pass/fail, never artifact content.
type Generator interface {
	Generate(ctx context.Context, goal string, days int) (string, error)
}
