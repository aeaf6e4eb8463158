package loop

import (
	"errors"

	"knotscene/internal/surface"
)

// TickFunc is called once per display refresh.
type TickFunc func() error

// Scheduler is the host's per-frame callback primitive.
type Scheduler interface {
	// Register adds fn to the per-frame callbacks. The returned func removes it
	// and is safe to call more than once.
	Register(fn TickFunc) (unregister func())
}

// FrameScheduler is a Scheduler pumped explicitly by the host, once per
// presented frame.
type FrameScheduler struct {
	ticks surface.Listeners[TickFunc]
}

func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

func (s *FrameScheduler) Register(fn TickFunc) func() {
	return s.ticks.Add(fn)
}

// Tick calls every registered callback in registration order and joins their errors.
func (s *FrameScheduler) Tick() error {
	var errs []error
	for _, fn := range s.ticks.Snapshot() {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of registered callbacks.
func (s *FrameScheduler) Len() int {
	return s.ticks.Len()
}
