package store

import (
	"context"
	"sync"
	"time"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/ports"
)

// MemoryStore is an in-memory implementation of the SessionStore
// interface, primarily for tests
type MemoryStore struct {
	sessions map[string]memoryEntry
	ttl      time.Duration
	mu       sync.RWMutex
}

type memoryEntry struct {
	session   core.Session
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      core.SessionTTL,
	}
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// SetTTL overrides the session TTL, useful for expiry tests
func (s *MemoryStore) SetTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ttl = ttl
}

// Put stores the session with the configured TTL
func (s *MemoryStore) Put(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Get retrieves a session by id
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, core.ErrSessionNotFound
	}

	session := entry.session
	return &session, nil
}

// Delete removes a session, reporting whether one was present
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return false, nil
	}
	delete(s.sessions, sessionID)

	// An expired but not yet collected entry counts as absent
	if time.Now().After(entry.expiresAt) {
		return false, nil
	}

	return true, nil
}
