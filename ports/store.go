package ports

import (
	"context"

	"github.com/pathmint/waypoint/core"
)

// SessionStore holds short-lived session records with TTL expiry
type SessionStore interface {
	// Put stores a session under its id with the store's TTL
	Put(ctx context.Context, session *core.Session) error

	// Get retrieves a session by id; core.ErrSessionNotFound on miss
	Get(ctx context.Context, sessionID string) (*core.Session, error)

	// Delete removes a session; returns whether one was present
	Delete(ctx context.Context, sessionID string) (bool, error)
}
