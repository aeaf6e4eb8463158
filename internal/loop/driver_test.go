package loop

import (
	"errors"
	"math"
	"testing"
	"time"

	"knotscene/internal/config"
	"knotscene/internal/profiling"
	"knotscene/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	draws     int
	rotations [][2]float64
	err       error
	onRender  func()
}

func (r *recordingTarget) Render(sc *scene.Scene) error {
	r.draws++
	x, y := sc.Knot.Rotation()
	r.rotations = append(r.rotations, [2]float64{x, y})
	if r.onRender != nil {
		r.onRender()
	}
	return r.err
}

func newScene(t testing.TB) *scene.Scene {
	t.Helper()
	sc, err := scene.Build(config.DefaultScene())
	require.NoError(t, err)
	return sc
}

func TestDriverRotationIsTickCountDriven(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{}
	sc := newScene(t)
	require.NoError(t, d.Start(target, sc))

	const n = 4000
	for range n {
		require.NoError(t, sched.Tick())
	}
	x, y := sc.Knot.Rotation()
	assert.InDelta(t, math.Mod(0.002*n, 2*math.Pi), x, 1e-9)
	assert.InDelta(t, math.Mod(0.003*n, 2*math.Pi), y, 1e-9)
	assert.Equal(t, n, target.draws)
	assert.Equal(t, uint64(n), d.Ticks())
}

func TestDriverRotatesBeforeDraw(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{}
	require.NoError(t, d.Start(target, newScene(t)))

	require.NoError(t, sched.Tick())
	require.NoError(t, sched.Tick())
	require.Len(t, target.rotations, 2)
	assert.InDelta(t, 0.002, target.rotations[0][0], 1e-12)
	assert.InDelta(t, 0.003, target.rotations[0][1], 1e-12)
	assert.InDelta(t, 0.004, target.rotations[1][0], 1e-12)
}

func TestDriverNoWorkAfterStop(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{}
	sc := newScene(t)
	require.NoError(t, d.Start(target, sc))

	require.NoError(t, sched.Tick())
	d.Stop()
	d.Stop()
	assert.False(t, d.Running())
	assert.Zero(t, sched.Len())

	x0, y0 := sc.Knot.Rotation()
	for range 10 {
		require.NoError(t, sched.Tick())
	}
	x, y := sc.Knot.Rotation()
	assert.Equal(t, 1, target.draws)
	assert.Equal(t, x0, x)
	assert.Equal(t, y0, y)
}

func TestDriverIgnoresStaleTick(t *testing.T) {
	// A scheduler that keeps a handle to the callback after unregister.
	var held TickFunc
	sched := schedulerFunc(func(fn TickFunc) func() {
		held = fn
		return func() {}
	})
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{}
	require.NoError(t, d.Start(target, newScene(t)))
	d.Stop()

	require.NoError(t, held())
	assert.Zero(t, target.draws)

	// restarting does not revive the old registration
	stale := held
	require.NoError(t, d.Start(target, newScene(t)))
	require.NoError(t, stale())
	assert.Zero(t, target.draws)
	require.NoError(t, held())
	assert.Equal(t, 1, target.draws)
}

func TestDriverStartTwice(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{}
	require.NoError(t, d.Start(target, newScene(t)))
	assert.ErrorIs(t, d.Start(target, newScene(t)), ErrAlreadyRunning)
	assert.Equal(t, 1, sched.Len())
}

func TestDriverRejectsReentrantTick(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{}
	var inner error
	target.onRender = func() {
		if inner == nil {
			inner = sched.Tick()
		}
	}
	require.NoError(t, d.Start(target, newScene(t)))

	require.NoError(t, sched.Tick())
	assert.ErrorIs(t, inner, ErrReentrantTick)
	assert.Equal(t, 1, target.draws)
}

func TestDriverSurfacesFrameError(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{err: errors.New("draw failed")}
	require.NoError(t, d.Start(target, newScene(t)))

	assert.ErrorIs(t, sched.Tick(), target.err)
	assert.True(t, d.Running())

	target.err = nil
	require.NoError(t, sched.Tick())
	assert.Equal(t, uint64(2), d.Ticks())
}

func TestDriverStopsOnDisposedScene(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	target := &recordingTarget{}
	sc := newScene(t)
	require.NoError(t, d.Start(target, sc))

	sc.Dispose()
	assert.ErrorIs(t, sched.Tick(), scene.ErrDisposed)
	assert.Zero(t, target.draws)
	x, y := sc.Knot.Rotation()
	assert.Zero(t, x, "no rotation without a draw")
	assert.Zero(t, y)
}

func TestDriverStopWaitsForTickInFlight(t *testing.T) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	entered := make(chan struct{})
	release := make(chan struct{})
	target := &recordingTarget{onRender: func() {
		close(entered)
		<-release
	}}
	require.NoError(t, d.Start(target, newScene(t)))

	tickErr := make(chan error, 1)
	go func() { tickErr <- sched.Tick() }()
	<-entered

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was still drawing")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-tickErr)
	<-stopped
	assert.False(t, d.Running())
	assert.Equal(t, uint64(1), d.Ticks())
}

func TestDriverProfilesSections(t *testing.T) {
	sched := NewFrameScheduler()
	rec := profiling.New()
	cfg := config.DefaultLoop()
	cfg.SlowFrame = config.Duration{Duration: time.Nanosecond}
	d := NewDriver(sched, cfg, WithProfiler(rec))
	require.NoError(t, d.Start(&recordingTarget{}, newScene(t)))

	require.NoError(t, sched.Tick())
	snap := rec.Snapshot()
	assert.Contains(t, snap, "scene.Advance")
	assert.Contains(t, snap, "render")
	assert.Equal(t, uint64(1), rec.Frames())
}

type schedulerFunc func(fn TickFunc) func()

func (f schedulerFunc) Register(fn TickFunc) func() { return f(fn) }

func BenchmarkDriverTick(b *testing.B) {
	sched := NewFrameScheduler()
	d := NewDriver(sched, config.DefaultLoop())
	if err := d.Start(&recordingTarget{}, newScene(b)); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sched.Tick()
	}
}
