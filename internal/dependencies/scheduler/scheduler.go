package scheduler

import "time"

// CancelFunc stops a scheduled task. Calling it after the task has
// fired is a no-op. It reports whether the task was stopped before
// firing.
type CancelFunc func() bool

// Scheduler provides delayed task execution that can be mocked for
// testing. Scheduled tasks are fire-and-forget; callers that care
// about staleness must re-validate state inside the callback.
type Scheduler interface {
	// AfterFunc runs fn after the given delay unless cancelled first
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

// RealScheduler implements Scheduler using time.AfterFunc
type RealScheduler struct{}

// New creates a new RealScheduler
func New() *RealScheduler {
	return &RealScheduler{}
}

// AfterFunc runs fn on a timer goroutine after the delay
func (s *RealScheduler) AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
