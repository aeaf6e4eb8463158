// Package renderer binds a drawing backend to a surface and turns a scene
// into frames.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"knotscene/internal/scene"
	"knotscene/internal/surface"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrContextCreation = errors.New("render context creation failed")
	ErrFrame           = errors.New("frame failed")
	ErrResize          = errors.New("resize failed")
)

// RenderContext owns a Backend bound to a Surface. It is created once per
// mount and used from the render thread only, except RequestResize.
type RenderContext struct {
	surface surface.Surface
	backend Backend
	logger  *slog.Logger
	clear   mgl32.Vec4
	// clearSet makes clear win over the scene's own clear color
	clearSet bool

	pendingResize atomic.Bool

	width, height int
	frames        uint64
	lastResizeErr error
	disposed      bool
}

// Option configures a RenderContext.
type Option func(*RenderContext)

func WithLogger(l *slog.Logger) Option {
	return func(rc *RenderContext) {
		if l != nil {
			rc.logger = l
		}
	}
}

// WithClearColor overrides the scene's clear color.
func WithClearColor(c mgl32.Vec4) Option {
	return func(rc *RenderContext) { rc.clear, rc.clearSet = c, true }
}

// NewRenderContext initializes backend at the surface's current framebuffer
// size. On failure the backend is disposed and the error wraps ErrContextCreation.
func NewRenderContext(s surface.Surface, b Backend, opts ...Option) (*RenderContext, error) {
	if s == nil || b == nil {
		return nil, fmt.Errorf("%w: missing surface or backend", ErrContextCreation)
	}
	rc := &RenderContext{
		surface: s,
		backend: b,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(rc)
	}

	w, h := s.FramebufferSize()
	if err := b.Init(w, h); err != nil {
		if derr := b.Dispose(); derr != nil {
			err = errors.Join(err, derr)
		}
		return nil, fmt.Errorf("%w: %w", ErrContextCreation, err)
	}
	rc.width, rc.height = w, h
	rc.logger.Debug("render context created", "width", w, "height", h)
	return rc, nil
}

// RequestResize queues a resize to the surface's size at the start of the
// next Render. Safe to call from any goroutine.
func (rc *RenderContext) RequestResize() {
	rc.pendingResize.Store(true)
}

// Render draws one frame of sc. A failed pending resize is logged and kept in
// LastResizeError; the frame is still drawn at the previous size.
func (rc *RenderContext) Render(sc *scene.Scene) error {
	if rc.disposed {
		return fmt.Errorf("%w: context disposed", ErrFrame)
	}
	if sc == nil || sc.Disposed() {
		return fmt.Errorf("%w: no live scene", ErrFrame)
	}
	if rc.pendingResize.Swap(false) {
		rc.applyResize()
	}

	clearColor := sc.ClearColor
	if rc.clearSet {
		clearColor = rc.clear
	}
	cam := sc.Camera
	f := Frame{
		Index:          rc.frames,
		Width:          rc.width,
		Height:         rc.height,
		ClearColor:     clearColor,
		View:           cam.ViewMatrix(),
		Proj:           cam.ProjectionMatrix(rc.width, rc.height),
		Model:          sc.Knot.ModelMatrix(),
		CameraPosition: cam.Position(),
		Scene:          sc,
	}
	if err := rc.backend.Draw(&f); err != nil {
		return fmt.Errorf("%w: frame %d: %w", ErrFrame, f.Index, err)
	}
	rc.frames++
	return nil
}

func (rc *RenderContext) applyResize() {
	w, h := rc.surface.FramebufferSize()
	if w == rc.width && h == rc.height {
		return
	}
	if err := rc.backend.Resize(w, h); err != nil {
		rc.lastResizeErr = fmt.Errorf("%w: %dx%d: %w", ErrResize, w, h, err)
		rc.logger.Warn("resize rejected", "width", w, "height", h, "err", err)
		return
	}
	rc.width, rc.height = w, h
	rc.lastResizeErr = nil
	rc.logger.Debug("resized", "width", w, "height", h)
}

// Size returns the current output size in pixels.
func (rc *RenderContext) Size() (width, height int) {
	return rc.width, rc.height
}

// Frames returns the number of frames drawn successfully.
func (rc *RenderContext) Frames() uint64 {
	return rc.frames
}

// ClearColor returns the override set with WithClearColor, or transparent black.
func (rc *RenderContext) ClearColor() mgl32.Vec4 {
	return rc.clear
}

// LastResizeError returns the most recent resize failure, or nil once a
// later resize succeeds.
func (rc *RenderContext) LastResizeError() error {
	return rc.lastResizeErr
}

func (rc *RenderContext) Disposed() bool {
	return rc.disposed
}

// Dispose releases the backend. Later calls do nothing.
func (rc *RenderContext) Dispose() error {
	if rc.disposed {
		return nil
	}
	rc.disposed = true
	if err := rc.backend.Dispose(); err != nil {
		return fmt.Errorf("dispose backend: %w", err)
	}
	return nil
}
