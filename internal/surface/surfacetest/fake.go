// Package surfacetest provides an in-memory surface for tests.
package surfacetest

import (
	"sync"

	"knotscene/internal/surface"
)

// Fake is a surface whose size and pointer input are driven by the test.
type Fake struct {
	mu     sync.Mutex
	width  int
	height int

	resize surface.Listeners[func(w, h int)]
	drag   surface.Listeners[func(dx, dy float64)]
	scroll surface.Listeners[func(dy float64)]
}

func New(width, height int) *Fake {
	return &Fake{width: width, height: height}
}

func (f *Fake) FramebufferSize() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *Fake) OnResize(fn func(w, h int)) func() { return f.resize.Add(fn) }
func (f *Fake) OnDrag(fn func(dx, dy float64)) func() { return f.drag.Add(fn) }
func (f *Fake) OnScroll(fn func(dy float64)) func() { return f.scroll.Add(fn) }
func (f *Fake) ResizeListeners() int { return f.resize.Len() }
func (f *Fake) PointerListeners() int { return f.drag.Len() + f.scroll.Len() }

// Resize changes the framebuffer size and notifies resize listeners.
func (f *Fake) Resize(width, height int) {
	f.mu.Lock()
	f.width, f.height = width, height
	f.mu.Unlock()
	for _, fn := range f.resize.Snapshot() {
		fn(width, height)
	}
}

// Drag emits a pointer drag.
func (f *Fake) Drag(dx, dy float64) {
	for _, fn := range f.drag.Snapshot() {
		fn(dx, dy)
	}
}

// Scroll emits a wheel movement.
func (f *Fake) Scroll(dy float64) {
	for _, fn := range f.scroll.Snapshot() {
		fn(dy)
	}
}
