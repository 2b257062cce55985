package persist

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTimerScheduler_LastCallWins(t *testing.T) {
	s := NewTimerScheduler()
	var fired atomic.Int32
	var last atomic.Int32
	done := make(chan struct{}, 5)

	for i := int32(1); i <= 5; i++ {
		s.Schedule(func() {
			fired.Add(1)
			last.Store(i)
			done <- struct{}{}
		}, 20*time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
	time.Sleep(50 * time.Millisecond)

	if fired.Load() != 1 {
		t.Errorf("fired %d times, want 1", fired.Load())
	}
	if last.Load() != 5 {
		t.Errorf("fired callback %d, want 5", last.Load())
	}
}

func TestTimerScheduler_Cancel(t *testing.T) {
	s := NewTimerScheduler()
	var fired atomic.Bool
	s.Schedule(func() { fired.Store(true) }, 10*time.Millisecond)
	s.CancelPending()

	time.Sleep(40 * time.Millisecond)
	if fired.Load() {
		t.Error("cancelled callback fired")
	}
}

func TestFakeScheduler_Advance(t *testing.T) {
	s := NewFakeScheduler()
	calls := 0
	s.Schedule(func() { calls++ }, time.Second)

	s.Advance(999 * time.Millisecond)
	if calls != 0 {
		t.Fatal("fired early")
	}
	s.Advance(time.Millisecond)
	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
	s.Advance(time.Hour)
	if calls != 1 {
		t.Errorf("fired twice")
	}
	if s.Pending() {
		t.Error("still pending after firing")
	}
}
