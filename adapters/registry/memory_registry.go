// Package registry holds the in-process source of truth for task status.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/ports"
)

// MemoryRegistry maps task id to task state. Terminal transitions are
// compare-and-set under the registry lock: only a task still in
// processing can move, so however many completion paths race, exactly
// one wins and the rest become no-ops.
type MemoryRegistry struct {
	tasks map[string]*core.Task
	mu    sync.RWMutex
}

// NewMemoryRegistry creates an empty registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		tasks: make(map[string]*core.Task),
	}
}

var _ ports.TaskRegistry = (*MemoryRegistry)(nil)

// Put registers a task entry. Called before the work is enqueued so a
// status poll immediately after submission never misses.
func (r *MemoryRegistry) Put(task *core.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *task
	r.tasks[task.ID] = &copied
}

// Get returns a snapshot of the task
func (r *MemoryRegistry) Get(taskID string) (core.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return core.Task{}, false
	}

	return *task, true
}

// Complete moves the task to completed, returning whether this call
// performed the transition
func (r *MemoryRegistry) Complete(taskID, hash string) bool {
	return r.transition(taskID, func(task *core.Task) {
		task.Status = core.TaskCompleted
		task.Hash = hash
	})
}

// Fail moves the task to failed, returning whether this call performed
// the transition
func (r *MemoryRegistry) Fail(taskID, errMsg string) bool {
	return r.transition(taskID, func(task *core.Task) {
		task.Status = core.TaskFailed
		task.Error = errMsg
	})
}

func (r *MemoryRegistry) transition(taskID string, apply func(*core.Task)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok || task.Status != core.TaskProcessing {
		return false
	}

	apply(task)
	task.UpdatedAt = time.Now()
	return true
}

// StartRetentionSweep garbage-collects terminal entries older than
// retention, once per sweep interval, until ctx is done. A zero
// retention disables the sweep and entries are kept forever.
func (r *MemoryRegistry) StartRetentionSweep(ctx context.Context, retention time.Duration) {
	if retention <= 0 {
		return
	}

	interval := retention / 10
	if interval < time.Minute {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep(time.Now().Add(-retention))
			}
		}
	}()
}

func (r *MemoryRegistry) sweep(cutoff time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, task := range r.tasks {
		if task.Status.Terminal() && task.UpdatedAt.Before(cutoff) {
			delete(r.tasks, id)
		}
	}
}
