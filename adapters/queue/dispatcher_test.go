package queue_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pathmint/waypoint/adapters/queue"
	"github.com/pathmint/waypoint/adapters/registry"
	"github.com/pathmint/waypoint/core"
)

type captureNotifier struct {
	mu        sync.Mutex
	completed int
	failed    []string
}

func (n *captureNotifier) PublishCompleted(taskID, hash string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed++
}

func (n *captureNotifier) PublishFailed(taskID, errMsg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, errMsg)
}

func processingTask(id string) *core.Task {
	now := time.Now()
	return &core.Task{
		ID:        id,
		Goal:      "Learn Go",
		Days:      7,
		Status:    core.TaskProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func completedMessage(t *testing.T, taskID, hash string) *message.Message {
	t.Helper()

	payload, err := json.Marshal(queue.TaskCompleted{TaskID: taskID, Hash: hash})
	require.NoError(t, err)
	return message.NewMessage(taskID, payload)
}

func poisonedMessage(t *testing.T, taskID, reason string) *message.Message {
	t.Helper()

	payload, err := json.Marshal(queue.TaskSubmitted{TaskID: taskID, Goal: "Learn Go", Days: 7})
	require.NoError(t, err)

	msg := message.NewMessage(taskID, payload)
	if reason != "" {
		msg.Metadata.Set(middleware.ReasonForPoisonedKey, reason)
	}
	return msg
}

func TestHandleCompletedAppliesOnce(t *testing.T) {
	reg := registry.NewMemoryRegistry()
	notifier := &captureNotifier{}
	dispatcher := queue.NewDispatcher(reg, notifier, zerolog.Nop())

	reg.Put(processingTask("t1"))

	require.NoError(t, dispatcher.HandleCompleted(completedMessage(t, "t1", "QmHash")))
	// Redelivery from the queue must not produce a second event
	require.NoError(t, dispatcher.HandleCompleted(completedMessage(t, "t1", "QmHash")))

	task, _ := reg.Get("t1")
	require.Equal(t, core.TaskCompleted, task.Status)
	require.Equal(t, "QmHash", task.Hash)
	require.Equal(t, 1, notifier.completed)
}

func TestHandleCompletedUnknownTask(t *testing.T) {
	dispatcher := queue.NewDispatcher(registry.NewMemoryRegistry(), &captureNotifier{}, zerolog.Nop())

	require.NoError(t, dispatcher.HandleCompleted(completedMessage(t, "ghost", "QmHash")))
}

func TestHandleFailedCarriesPoisonReason(t *testing.T) {
	reg := registry.NewMemoryRegistry()
	notifier := &captureNotifier{}
	dispatcher := queue.NewDispatcher(reg, notifier, zerolog.Nop())

	reg.Put(processingTask("t1"))

	require.NoError(t, dispatcher.HandleFailed(poisonedMessage(t, "t1", "generation plan failed: model unavailable")))

	task, _ := reg.Get("t1")
	require.Equal(t, core.TaskFailed, task.Status)
	require.Equal(t, "generation plan failed: model unavailable", task.Error)
	require.Equal(t, []string{"generation plan failed: model unavailable"}, notifier.failed)
}

func TestHandleFailedDefaultReason(t *testing.T) {
	reg := registry.NewMemoryRegistry()
	notifier := &captureNotifier{}
	dispatcher := queue.NewDispatcher(reg, notifier, zerolog.Nop())

	reg.Put(processingTask("t1"))

	require.NoError(t, dispatcher.HandleFailed(poisonedMessage(t, "t1", "")))

	task, _ := reg.Get("t1")
	require.Equal(t, "task processing failed", task.Error)
}

func TestHandleFailedAfterCompletionIsNoOp(t *testing.T) {
	reg := registry.NewMemoryRegistry()
	notifier := &captureNotifier{}
	dispatcher := queue.NewDispatcher(reg, notifier, zerolog.Nop())

	reg.Put(processingTask("t1"))
	require.True(t, reg.Complete("t1", "QmHash"))

	require.NoError(t, dispatcher.HandleFailed(poisonedMessage(t, "t1", "too late")))

	task, _ := reg.Get("t1")
	require.Equal(t, core.TaskCompleted, task.Status)
	require.Empty(t, notifier.failed)
}

func TestMalformedEventsAreDropped(t *testing.T) {
	dispatcher := queue.NewDispatcher(registry.NewMemoryRegistry(), &captureNotifier{}, zerolog.Nop())

	require.NoError(t, dispatcher.HandleCompleted(message.NewMessage("x", []byte("{not json"))))
	require.NoError(t, dispatcher.HandleFailed(message.NewMessage("x", []byte("{not json"))))
}
