// Package surface describes the drawable target the scene is mounted on.
//
// The window system is a collaborator: it reports pixel sizes and delivers
// resize and pointer notifications. Implementations live next to the
// backend that owns the native handle.
package surface

// Surface is a drawable target with queryable framebuffer dimensions.
type Surface interface {
	FramebufferSize() (width, height int)
}

// ResizeSource delivers framebuffer size changes.
// The returned cancel func detaches the listener and is safe to call more than once.
type ResizeSource interface {
	OnResize(fn func(width, height int)) (cancel func())
}

// PointerSource delivers orbit-control input: drags in pixels and wheel notches.
type PointerSource interface {
	OnDrag(fn func(dx, dy float64)) (cancel func())
	OnScroll(fn func(dy float64)) (cancel func())
}
