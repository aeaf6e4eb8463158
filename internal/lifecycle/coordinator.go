// Package lifecycle mounts the scene on a surface and guarantees that
// everything acquired for it is released exactly once.
package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"knotscene/internal/config"
	"knotscene/internal/graphics/renderer"
	"knotscene/internal/loop"
	"knotscene/internal/profiling"
	"knotscene/internal/scene"
	"knotscene/internal/surface"
)

var (
	ErrAlreadyMounted = errors.New("already mounted")
	ErrNotMounted     = errors.New("not mounted")
)

type State int

const (
	Unmounted State = iota
	Mounting
	Mounted
	Unmounting
)

func (s State) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Mounted:
		return "mounted"
	case Unmounting:
		return "unmounting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BackendFactory creates the drawing backend for a surface.
type BackendFactory func(s surface.Surface) (renderer.Backend, error)

// Deps are the collaborators a Coordinator mounts onto. Surface, Scheduler
// and NewBackend are required.
type Deps struct {
	Surface   surface.Surface
	Resize    surface.ResizeSource
	Pointer   surface.PointerSource
	Keys      scene.ActionState
	Scheduler loop.Scheduler

	NewBackend BackendFactory

	Scene config.Scene
	Loop  config.Loop

	Logger   *slog.Logger
	Profiler *profiling.Recorder
}

// Coordinator owns the RenderContext and Scene for one mounted lifetime.
type Coordinator struct {
	deps   Deps
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	scope  *scope
	ctx    *renderer.RenderContext
	scene  *scene.Scene
	driver *loop.Driver
}

func New(deps Deps) (*Coordinator, error) {
	if deps.Surface == nil || deps.Scheduler == nil || deps.NewBackend == nil {
		return nil, errors.New("lifecycle: surface, scheduler and backend factory are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{deps: deps, logger: logger}, nil
}

// Mount creates the render context and scene, attaches the orbit controls,
// starts the render loop and subscribes to resizes. If any step fails or
// panics, everything acquired so far is released in reverse order and the
// error (or panic) is left to the caller to report.
func (c *Coordinator) Mount() (err error) {
	c.mu.Lock()
	if c.state != Unmounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	c.state = Mounting
	c.mu.Unlock()

	s := &scope{}
	ok := false
	defer func() {
		if ok {
			return
		}
		if rerr := s.close(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		c.mu.Lock()
		c.state = Unmounted
		c.mu.Unlock()
	}()

	d := c.deps
	backend, err := d.NewBackend(d.Surface)
	if err != nil {
		return fmt.Errorf("%w: %w", renderer.ErrContextCreation, err)
	}
	rc, err := renderer.NewRenderContext(d.Surface, backend, renderer.WithLogger(c.logger))
	if err != nil {
		return err
	}
	s.push("render context", rc.Dispose)

	sc, err := scene.Build(d.Scene)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	s.push("scene", func() error {
		sc.Dispose()
		return nil
	})

	detach := sc.Controls.Attach(d.Pointer, d.Keys)
	s.push("controls", func() error {
		detach()
		return nil
	})

	driver := loop.NewDriver(d.Scheduler, d.Loop, loop.WithLogger(c.logger), loop.WithProfiler(d.Profiler))
	if err := driver.Start(rc, sc); err != nil {
		return fmt.Errorf("start render loop: %w", err)
	}
	s.push("render loop", func() error {
		driver.Stop()
		return nil
	})

	if d.Resize != nil {
		cancel := d.Resize.OnResize(func(w, h int) {
			c.logger.Debug("surface resized", "width", w, "height", h)
			rc.RequestResize()
		})
		s.push("resize subscription", func() error {
			cancel()
			return nil
		})
	}

	c.mu.Lock()
	c.state = Mounted
	c.scope, c.ctx, c.scene, c.driver = s, rc, sc, driver
	c.mu.Unlock()
	ok = true

	w, h := rc.Size()
	c.logger.Info("mounted", "width", w, "height", h)
	return nil
}

// Unmount unsubscribes from resizes, stops the loop, detaches the controls,
// then disposes the scene and finally the render context. Every step runs
// even if an earlier one fails; the errors are joined.
func (c *Coordinator) Unmount() error {
	c.mu.Lock()
	if c.state != Mounted {
		c.mu.Unlock()
		return ErrNotMounted
	}
	c.state = Unmounting
	s := c.scope
	c.mu.Unlock()

	err := s.close()

	c.mu.Lock()
	c.state = Unmounted
	c.scope, c.ctx, c.scene, c.driver = nil, nil, nil, nil
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("unmount finished with errors", "err", err)
	} else {
		c.logger.Info("unmounted")
	}
	return err
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Scene returns the mounted scene, or nil.
func (c *Coordinator) Scene() *scene.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene
}

// Context returns the mounted render context, or nil.
func (c *Coordinator) Context() *renderer.RenderContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

// Running reports whether the render loop is delivering frames.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.driver != nil && c.driver.Running()
}
