// Package ws pushes task status changes to subscribed websocket clients.
package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/ports"
)

// Conn is the outbound half of a client connection. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Envelope is the wire frame for every server push
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ProcessedEvent announces a completed task
type ProcessedEvent struct {
	TaskID string `json:"taskId"`
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

// FailedEvent announces a failed task
type FailedEvent struct {
	TaskID string `json:"taskId"`
	Error  string `json:"error"`
	Status string `json:"status"`
}

// Hub fans task events out to every connection subscribed to the task.
// Delivery is at-most-once: no backlog for late subscribers, and a
// connection that cannot keep up just misses the event.
type Hub struct {
	conns  map[string]*client
	topics map[string]map[string]struct{} // taskID -> connection ids
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*client),
		topics: make(map[string]map[string]struct{}),
		logger: logger,
	}
}

var _ ports.Notifier = (*Hub)(nil)

type client struct {
	id     string
	conn   Conn
	send   chan Envelope
	closed bool
	mu     sync.Mutex
}

func (c *client) trySend(env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- env:
	default:
		// Slow consumer, drop the event
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Register adds a connection and starts its write pump, returning the
// connection id used for all further calls
func (h *Hub) Register(conn Conn) string {
	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan Envelope, 16),
	}

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()

	go h.writePump(c)

	h.logger.Debug().Str("conn_id", c.id).Msg("client connected")
	return c.id
}

// Unregister drops the connection from every topic it joined. Safe to
// call more than once.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	c, ok := h.conns[connID]
	if ok {
		delete(h.conns, connID)
		for taskID, subs := range h.topics {
			delete(subs, connID)
			if len(subs) == 0 {
				delete(h.topics, taskID)
			}
		}
	}
	h.mu.Unlock()

	if ok {
		c.close()
		h.logger.Debug().Str("conn_id", connID).Msg("client disconnected")
	}
}

// Subscribe adds the connection to the task's topic. A connection may
// subscribe to any number of tasks and vice versa.
func (h *Hub) Subscribe(connID, taskID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return
	}

	subs, ok := h.topics[taskID]
	if !ok {
		subs = make(map[string]struct{})
		h.topics[taskID] = subs
	}
	subs[connID] = struct{}{}
}

// PublishCompleted broadcasts a targetProcessed event to the task topic
func (h *Hub) PublishCompleted(taskID, hash string) {
	h.publish(taskID, Envelope{
		Event: "targetProcessed",
		Data: ProcessedEvent{
			TaskID: taskID,
			Hash:   hash,
			Status: "completed",
		},
	})
}

// PublishFailed broadcasts a targetFailed event to the task topic
func (h *Hub) PublishFailed(taskID, errMsg string) {
	h.publish(taskID, Envelope{
		Event: "targetFailed",
		Data: FailedEvent{
			TaskID: taskID,
			Error:  errMsg,
			Status: "failed",
		},
	})
}

func (h *Hub) publish(taskID string, env Envelope) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.topics[taskID]))
	for connID := range h.topics[taskID] {
		if c, ok := h.conns[connID]; ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.trySend(env)
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for env := range c.send {
		if err := c.conn.WriteJSON(env); err != nil {
			h.logger.Debug().Str("conn_id", c.id).Err(err).Msg("write failed")
			h.Unregister(c.id)
		}
	}
}
