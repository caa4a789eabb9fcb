package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pathmint/waypoint/core"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	session := &core.Session{ID: "s1", Address: "0xabc", CreatedAt: time.Now()}
	require.NoError(t, s.Put(ctx, session))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "0xabc", got.Address)

	deleted, err := s.Delete(ctx, "s1")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = s.Get(ctx, "s1")
	require.True(t, errors.Is(err, core.ErrSessionNotFound))

	// Second delete is a safe no-op
	deleted, err = s.Delete(ctx, "s1")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.SetTTL(10 * time.Millisecond)

	require.NoError(t, s.Put(ctx, &core.Session{ID: "s1", Address: "0xabc", CreatedAt: time.Now()}))

	time.Sleep(20 * time.Millisecond)

	_, err := s.Get(ctx, "s1")
	require.True(t, errors.Is(err, core.ErrSessionNotFound))

	deleted, err := s.Delete(ctx, "s1")
	require.NoError(t, err)
	require.False(t, deleted)
}
