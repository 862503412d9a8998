package mocks

import (
	"time"

	"github.com/scopecreep/projectgame/internal/dependencies/scheduler"
)

// MockScheduler is a mock implementation of Scheduler for testing.
// Tasks do not run until Fire or FireAll is called.
type MockScheduler struct {
	tasks []*mockTask
}

type mockTask struct {
	Delay     time.Duration
	Fn        func()
	cancelled bool
	fired     bool
}

// Ensure MockScheduler implements Scheduler
var _ scheduler.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates a new MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// AfterFunc records the task without running it
func (s *MockScheduler) AfterFunc(d time.Duration, fn func()) scheduler.CancelFunc {
	task := &mockTask{Delay: d, Fn: fn}
	s.tasks = append(s.tasks, task)
	return func() bool {
		if task.fired || task.cancelled {
			return false
		}
		task.cancelled = true
		return true
	}
}

// PendingCount returns the number of scheduled tasks that have neither
// fired nor been cancelled
func (s *MockScheduler) PendingCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

// Fire runs the oldest pending task, if any. It reports whether a task
// was run.
func (s *MockScheduler) Fire() bool {
	for _, t := range s.tasks {
		if !t.fired && !t.cancelled {
			t.fired = true
			t.Fn()
			return true
		}
	}
	return false
}

// FireAll runs every pending task in scheduling order
func (s *MockScheduler) FireAll() {
	for s.Fire() {
	}
}

// Reset clears all recorded tasks
func (s *MockScheduler) Reset() {
	s.tasks = nil
}
