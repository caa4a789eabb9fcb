package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeConn captures frames written by the hub's write pump
type fakeConn struct {
	frames chan Envelope
	broken bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan Envelope, 32)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.broken {
		return errors.New("connection reset")
	}
	c.frames <- v.(Envelope)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) next(t *testing.T) Envelope {
	t.Helper()

	select {
	case env := <-c.frames:
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Envelope{}
	}
}

func (c *fakeConn) none(t *testing.T) {
	t.Helper()

	select {
	case env := <-c.frames:
		t.Fatalf("unexpected frame: %+v", env)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishToSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	first := newFakeConn()
	second := newFakeConn()
	firstID := hub.Register(first)
	secondID := hub.Register(second)

	hub.Subscribe(firstID, "task-1")
	hub.Subscribe(secondID, "task-1")

	hub.PublishCompleted("task-1", "QmHash")

	for _, conn := range []*fakeConn{first, second} {
		env := conn.next(t)
		require.Equal(t, "targetProcessed", env.Event)
		data := env.Data.(ProcessedEvent)
		require.Equal(t, "task-1", data.TaskID)
		require.Equal(t, "QmHash", data.Hash)
		require.Equal(t, "completed", data.Status)
	}
}

func TestPublishFailedEvent(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	conn := newFakeConn()
	connID := hub.Register(conn)
	hub.Subscribe(connID, "task-1")

	hub.PublishFailed("task-1", "model unavailable")

	env := conn.next(t)
	require.Equal(t, "targetFailed", env.Event)
	data := env.Data.(FailedEvent)
	require.Equal(t, "model unavailable", data.Error)
	require.Equal(t, "failed", data.Status)
}

func TestEventsScopedToTopic(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	conn := newFakeConn()
	connID := hub.Register(conn)
	hub.Subscribe(connID, "task-1")

	hub.PublishCompleted("task-2", "QmOther")
	conn.none(t)
}

func TestLateSubscriberGetsNoReplay(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	hub.PublishCompleted("task-1", "QmHash")

	conn := newFakeConn()
	connID := hub.Register(conn)
	hub.Subscribe(connID, "task-1")

	conn.none(t)
}

func TestDisconnectCleansUpMemberships(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	conn := newFakeConn()
	connID := hub.Register(conn)
	hub.Subscribe(connID, "task-1")
	hub.Subscribe(connID, "task-2")

	hub.Unregister(connID)
	// Unregister is safe to repeat
	hub.Unregister(connID)

	hub.PublishCompleted("task-1", "QmHash")
	hub.PublishFailed("task-2", "boom")
	conn.none(t)
}

func TestSubscribeUnknownConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	hub.Subscribe("ghost", "task-1")
	hub.PublishCompleted("task-1", "QmHash")
}

func TestMultipleTopicsPerConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	conn := newFakeConn()
	connID := hub.Register(conn)
	hub.Subscribe(connID, "task-1")
	hub.Subscribe(connID, "task-2")

	hub.PublishCompleted("task-1", "QmOne")
	hub.PublishFailed("task-2", "boom")

	events := map[string]bool{}
	for i := 0; i < 2; i++ {
		events[conn.next(t).Event] = true
	}
	require.True(t, events["targetProcessed"])
	require.True(t, events["targetFailed"])
}

func TestBrokenConnectionIsDropped(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	conn := newFakeConn()
	conn.broken = true
	connID := hub.Register(conn)
	hub.Subscribe(connID, "task-1")

	hub.PublishCompleted("task-1", "QmHash")

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.conns[connID]
		return !ok
	}, time.Second, 5*time.Millisecond)
}
