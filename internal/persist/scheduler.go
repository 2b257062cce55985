package persist

import (
	"sync"
	"time"
)

// Scheduler runs at most one pending callback after a delay. Scheduling a
// new callback discards any that has not fired yet.
type Scheduler interface {
	Schedule(fn func(), delay time.Duration)
	CancelPending()
}

// TimerScheduler is a Scheduler backed by time.AfterFunc. Callbacks run on
// the timer goroutine.
type TimerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewTimerScheduler returns a ready TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) Schedule(fn func(), delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// A timer that already fired cannot be stopped; the generation
		// check drops it if it was superseded in the meantime.
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.gen++
		s.mu.Unlock()
		fn()
	})
}

func (s *TimerScheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *TimerScheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// FakeScheduler is a manually driven Scheduler for tests.
type FakeScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	fn      func()
	dueAt   time.Duration
	pending bool

	// Scheduled counts Schedule calls.
	Scheduled int
}

// NewFakeScheduler returns a FakeScheduler at virtual time zero.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

func (s *FakeScheduler) Schedule(fn func(), delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
	s.dueAt = s.now + delay
	s.pending = true
	s.Scheduled++
}

func (s *FakeScheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
	s.pending = false
}

// Pending reports whether a callback is waiting to fire.
func (s *FakeScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Advance moves virtual time forward by d and runs the pending callback
// if it became due. The callback runs on the caller's goroutine.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var fn func()
	if s.pending && s.now >= s.dueAt {
		fn = s.fn
		s.fn = nil
		s.pending = false
	}
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}
