package profiling

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Recorder accumulates per-frame CPU time by section name.
// A disabled recorder hands out no-op stop funcs.
type Recorder struct {
	enabled atomic.Bool

	mu     sync.Mutex
	totals map[string]time.Duration
	last   map[string]time.Duration
	frames uint64
}

// New returns an enabled recorder.
func New() *Recorder {
	r := &Recorder{
		totals: make(map[string]time.Duration),
		last:   make(map[string]time.Duration),
	}
	r.enabled.Store(true)
	return r
}

func noop() {}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer rec.Track("loop.Render")()
func (r *Recorder) Track(name string) func() {
	if r == nil || !r.enabled.Load() {
		return noop
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		r.mu.Lock()
		r.totals[name] += d
		r.mu.Unlock()
	}
}

// SetEnabled turns recording on or off. Totals are kept.
func (r *Recorder) SetEnabled(on bool) {
	r.enabled.Store(on)
}

// Toggle flips recording and returns the new state.
func (r *Recorder) Toggle() bool {
	for {
		old := r.enabled.Load()
		if r.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (r *Recorder) Enabled() bool {
	return r.enabled.Load()
}

// ResetFrame moves the current totals to the last-frame set and starts
// a new frame. Call at the start of each frame.
func (r *Recorder) ResetFrame() {
	r.mu.Lock()
	r.last, r.totals = r.totals, r.last
	clear(r.totals)
	r.frames++
	r.mu.Unlock()
}

// Frames returns how many times ResetFrame has run.
func (r *Recorder) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Snapshot returns a copy of the current totals.
func (r *Recorder) Snapshot() map[string]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.totals)
}

// LastFrame returns a copy of the totals of the previous complete frame.
func (r *Recorder) LastFrame() map[string]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.last)
}

// TopN formats the n largest totals, longest first.
// Example: "loop.Render:4.2ms, scene.Advance:0.3ms"
func (r *Recorder) TopN(n int) string {
	return formatTop(r.Snapshot(), n)
}

// LastTopN is TopN over the previous complete frame.
func (r *Recorder) LastTopN(n int) string {
	return formatTop(r.LastFrame(), n)
}

func formatTop(ss map[string]time.Duration, n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{k, v})
	}
	slices.SortFunc(list, func(a, b pair) int {
		if c := cmp.Compare(b.dur, a.dur); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, p.name+":"+formatMs(p.dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
