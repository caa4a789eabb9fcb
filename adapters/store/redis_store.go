package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/ports"
)

const keyPrefix = "session:"

// sessionRecord is the persisted JSON shape: {address, timestamp}
type sessionRecord struct {
	Address   string `json:"address"`
	Timestamp int64  `json:"timestamp"`
}

// RedisStore is a Redis implementation of the SessionStore interface
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis session store
func NewRedisStore(client *redis.Client) ports.SessionStore {
	return &RedisStore{
		client: client,
		ttl:    core.SessionTTL,
	}
}

// Put stores the session under session:{id} with the 24h TTL
func (s *RedisStore) Put(ctx context.Context, session *core.Session) error {
	record := sessionRecord{
		Address:   session.Address,
		Timestamp: session.CreatedAt.UnixMilli(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+session.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("%v: %w", err, core.ErrStoreUnavailable)
	}

	return nil
}

// Get retrieves a session by id
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	payload, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%v: %w", err, core.ErrStoreUnavailable)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &core.Session{
		ID:        sessionID,
		Address:   record.Address,
		CreatedAt: time.UnixMilli(record.Timestamp),
	}, nil
}

// Delete removes a session, reporting whether one was present
func (s *RedisStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	deleted, err := s.client.Del(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("%v: %w", err, core.ErrStoreUnavailable)
	}

	return deleted == 1, nil
}
