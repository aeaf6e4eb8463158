package loop

import "time"

// Limiter provides high-precision frame rate limiting for the host pump
type Limiter struct {
	next time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{}
}

// Wait blocks until the next frame is due at limit frames per second.
// A limit of 0 or less disables limiting.
// Uses a hybrid sleep/spin approach for better precision on high FPS caps.
func (f *Limiter) Wait(limit int) {
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// resync after a hitch instead of rushing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
