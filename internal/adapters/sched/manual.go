package sched

import (
	"sync"
	"time"
)

// ManualScheduler is a deterministic Scheduler for tests: scheduled actions
// never run on their own, they fire only when the test calls Fire.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualHandle
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule records fn without starting any timer.
func (s *ManualScheduler) Schedule(_ time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &manualHandle{fn: fn}
	s.pending = append(s.pending, h)
	return h
}

// Pending returns the number of scheduled actions not yet fired or cancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.pending {
		if !h.settled() {
			n++
		}
	}
	return n
}

// Fire runs every pending action, simulating the delays elapsing. Returns
// the number of actions that actually ran.
func (s *ManualScheduler) Fire() int {
	s.mu.Lock()
	handles := s.pending
	s.pending = nil
	s.mu.Unlock()

	fired := 0
	for _, h := range handles {
		if h.fire() {
			fired++
		}
	}
	return fired
}

type manualHandle struct {
	mu        sync.Mutex
	fn        func()
	cancelled bool
	done      bool
}

func (h *manualHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done || h.cancelled {
		return false
	}
	h.cancelled = true
	return true
}

func (h *manualHandle) settled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done || h.cancelled
}

func (h *manualHandle) fire() bool {
	h.mu.Lock()
	if h.done || h.cancelled {
		h.mu.Unlock()
		return false
	}
	h.done = true
	fn := h.fn
	h.mu.Unlock()
	fn()
	return true
}
