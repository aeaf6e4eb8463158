// Package loop drives per-tick scene updates and drawing from a host scheduler.
package loop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"knotscene/internal/config"
	"knotscene/internal/profiling"
	"knotscene/internal/scene"
)

var (
	ErrAlreadyRunning = errors.New("render loop already running")
	ErrReentrantTick  = errors.New("render tick re-entered")
)

// Target draws a scene. *renderer.RenderContext satisfies it.
type Target interface {
	Render(sc *scene.Scene) error
}

// Driver is the render loop: Stopped until Start, Running until Stop.
type Driver struct {
	sched  Scheduler
	cfg    config.Loop
	logger *slog.Logger
	prof   *profiling.Recorder

	mu         sync.Mutex
	idle       *sync.Cond // signalled when an in-flight tick returns
	running    bool
	inTick     bool
	gen        uint64
	unregister func()
	target     Target
	scene      *scene.Scene
	ticks      uint64
}

// Option configures a Driver.
type Option func(*Driver)

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithProfiler records per-tick section timings into rec.
func WithProfiler(rec *profiling.Recorder) Option {
	return func(d *Driver) { d.prof = rec }
}

func NewDriver(sched Scheduler, cfg config.Loop, opts ...Option) *Driver {
	d := &Driver{
		sched:  sched,
		cfg:    cfg,
		logger: slog.Default(),
	}
	d.idle = sync.NewCond(&d.mu)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start registers the tick handler. Each tick rotates the knot, advances the
// scene by one tick and draws one frame to target.
func (d *Driver) Start(target Target, sc *scene.Scene) error {
	if target == nil || sc == nil {
		return errors.New("render loop needs a target and a scene")
	}
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.running = true
	d.gen++
	gen := d.gen
	d.target, d.scene = target, sc
	d.mu.Unlock()

	unregister := d.sched.Register(func() error { return d.tick(gen) })

	d.mu.Lock()
	if !d.running || d.gen != gen {
		// stopped while registering
		d.mu.Unlock()
		unregister()
		return nil
	}
	d.unregister = unregister
	d.mu.Unlock()
	d.logger.Debug("render loop started")
	return nil
}

// Stop unregisters the tick handler and waits for a tick already in flight
// to return, so the scene and target may be released once Stop returns.
// Ticks still delivered afterwards are ignored. Calling Stop on a stopped
// driver does nothing. Stop must not be called from inside the tick's own
// Target.Render or Scene.Advance; that call would wait on itself.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	unregister := d.unregister
	d.unregister = nil
	d.target, d.scene = nil, nil
	d.mu.Unlock()

	if unregister != nil {
		unregister()
	}

	d.mu.Lock()
	for d.inTick {
		d.idle.Wait()
	}
	ticks := d.ticks
	d.mu.Unlock()
	d.logger.Debug("render loop stopped", "ticks", ticks)
}

func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Ticks returns the number of ticks that reached the draw step.
func (d *Driver) Ticks() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticks
}

func (d *Driver) tick(gen uint64) error {
	d.mu.Lock()
	if !d.running || gen != d.gen {
		d.mu.Unlock()
		return nil
	}
	if d.inTick {
		d.mu.Unlock()
		return ErrReentrantTick
	}
	d.inTick = true
	target, sc := d.target, d.scene
	n := d.ticks
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inTick = false
		d.idle.Broadcast()
		d.mu.Unlock()
	}()

	if d.prof != nil {
		d.prof.ResetFrame()
	}
	start := time.Now()

	stop := d.prof.Track("scene.Advance")
	err := sc.Advance(d.cfg.TickSeconds)
	stop()
	if err != nil {
		return fmt.Errorf("advance scene: %w", err)
	}
	// Only a tick that goes on to draw rotates the knot.
	sc.Knot.Rotate(d.cfg.RotationStepX, d.cfg.RotationStepY)

	d.mu.Lock()
	d.ticks++
	d.mu.Unlock()

	stop = d.prof.Track("render")
	err = target.Render(sc)
	stop()

	if elapsed := time.Since(start); d.cfg.SlowFrame.Duration > 0 && elapsed > d.cfg.SlowFrame.Duration {
		top := ""
		if d.prof != nil {
			top = d.prof.TopN(3)
		}
		d.logger.Warn("slow frame", "tick", n, "elapsed", elapsed, "top", top)
	}
	return err
}
