package loop

import (
	"errors"
	"testing"
	"time"
)

func TestFrameSchedulerOrderAndErrors(t *testing.T) {
	s := NewFrameScheduler()
	var order []int
	errA := errors.New("a")
	s.Register(func() error { order = append(order, 1); return errA })
	cancel := s.Register(func() error { order = append(order, 2); return nil })

	err := s.Tick()
	if !errors.Is(err, errA) {
		t.Fatalf("got %v, want %v", err, errA)
	}
	cancel()
	cancel()
	if s.Len() != 1 {
		t.Fatalf("got %d callbacks, want 1", s.Len())
	}
	_ = s.Tick()
	if want := []int{1, 2, 1}; len(order) != len(want) || order[2] != 1 {
		t.Fatalf("got order %v, want %v", order, want)
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter()
	start := time.Now()
	for range 100 {
		l.Wait(0)
	}
	if d := time.Since(start); d > 50*time.Millisecond {
		t.Fatalf("unlimited waits took %v", d)
	}
}

func TestLimiterPacesFrames(t *testing.T) {
	l := NewLimiter()
	start := time.Now()
	for range 10 {
		l.Wait(200)
	}
	// ten frames at 5ms each
	if d := time.Since(start); d < 45*time.Millisecond {
		t.Fatalf("10 frames at 200 fps took %v, want about 50ms", d)
	}
}
