// Package sched provides the cancellable delayed-action primitive behind
// question auto-advance.
//
// The flow layer owns the cancellation discipline: every navigation or
// selection change cancels the pending handle so a stale timer can never
// fire into a question the visitor has since altered.
package sched

import (
	"sync"
	"time"
)

// Handle identifies a scheduled action and allows cancelling it.
type Handle interface {
	// Cancel stops the action if it has not fired yet. Returns true when
	// the action was still pending and is now guaranteed not to run.
	Cancel() bool
}

// Scheduler runs fn once after the given delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// TimerScheduler is the production implementation over time.AfterFunc.
type TimerScheduler struct{}

// NewTimerScheduler creates the wall-clock scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Schedule arms a one-shot timer for fn.
func (s *TimerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	h := &timerHandle{}
	h.timer = time.AfterFunc(delay, func() {
		h.mu.Lock()
		if h.done {
			h.mu.Unlock()
			return
		}
		h.done = true
		h.mu.Unlock()
		fn()
	})
	return h
}

type timerHandle struct {
	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

func (h *timerHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	h.timer.Stop()
	return true
}
