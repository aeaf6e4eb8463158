package renderer

import (
	"errors"
	"fmt"
)

// Renderer orchestrates rendering via renderable features.
// It implements Backend on top of a Device.
type Renderer struct {
	device      Device
	renderables []Renderable
	inited      int
	released    bool
}

// NewRenderer creates a renderer with the given renderables. Nothing touches
// the device until Init.
func NewRenderer(d Device, rs ...Renderable) *Renderer {
	return &Renderer{device: d, renderables: rs}
}

// Init configures the device and initializes all renderables in order.
// On failure the caller still owns the renderer and must Dispose it; only
// the renderables that initialized are disposed then.
func (r *Renderer) Init(width, height int) error {
	if err := r.device.Setup(); err != nil {
		return fmt.Errorf("device setup: %w", err)
	}
	for _, rd := range r.renderables {
		if err := rd.Init(); err != nil {
			return err
		}
		r.inited++
	}
	return r.Resize(width, height)
}

// Resize updates the viewport and every renderable's view of it.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	if err := r.device.Viewport(width, height); err != nil {
		return err
	}
	for _, rd := range r.renderables[:r.inited] {
		rd.SetViewport(width, height)
	}
	return nil
}

// Draw clears the target and renders all features in order.
func (r *Renderer) Draw(f *Frame) error {
	if f == nil || f.Scene == nil {
		return errors.New("no scene to draw")
	}
	r.device.Clear(f.ClearColor)
	for _, rd := range r.renderables[:r.inited] {
		rd.Render(f)
	}
	return r.device.Err()
}

// Dispose cleans up all renderables in reverse order, then the device.
// Later calls do nothing.
func (r *Renderer) Dispose() error {
	if r.released {
		return nil
	}
	r.released = true
	for i := r.inited - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.inited = 0
	r.device.Release()
	return nil
}
