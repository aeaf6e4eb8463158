package scene

import (
	"sync"

	"knotscene/internal/input"
	"knotscene/internal/surface"
)

// ActionState is the subset of input.InputManager the controls poll each tick.
type ActionState interface {
	IsActive(a input.Action) bool
	JustPressed(a input.Action) bool
}

// OrbitControls turns pointer drags, wheel notches and held keys into camera inertia.
type OrbitControls struct {
	camera *OrbitCamera

	// AngularSensibility is pixels of drag per radian.
	AngularSensibility float64
	// WheelPrecision divides wheel notches before they become radius offsets.
	WheelPrecision float64
	// KeyAngularSpeed is the per-tick rotation offset while an orbit key is held.
	KeyAngularSpeed float64
	// KeyZoomSensibility divides the per-tick zoom offset while a zoom key is held.
	KeyZoomSensibility float64
	// ResetDuration is how long the reset animation takes, in seconds.
	ResetDuration float32

	home [3]float64

	// pointer callbacks may arrive off the render goroutine
	mu      sync.Mutex
	pending [3]float64

	keys   ActionState
	detach []func()
}

// NewOrbitControls binds controls to cam. The camera's current pose becomes the reset pose.
func NewOrbitControls(cam *OrbitCamera) *OrbitControls {
	return &OrbitControls{
		camera:             cam,
		AngularSensibility: 1000,
		WheelPrecision:     3,
		KeyAngularSpeed:    0.01,
		KeyZoomSensibility: 25,
		ResetDuration:      1,
		home:               [3]float64{cam.alpha, cam.beta, cam.radius},
	}
}

// Attach subscribes to the surface's pointer events and, when keys is non-nil,
// polls it on every Update. The returned func detaches everything and is idempotent.
func (oc *OrbitControls) Attach(src surface.PointerSource, keys ActionState) func() {
	if src != nil {
		oc.detach = append(oc.detach,
			src.OnDrag(oc.Drag),
			src.OnScroll(oc.Scroll),
		)
	}
	oc.keys = keys

	var once sync.Once
	return func() {
		once.Do(oc.Detach)
	}
}

// Detach drops every subscription made by Attach.
func (oc *OrbitControls) Detach() {
	for _, cancel := range oc.detach {
		cancel()
	}
	oc.detach = nil
	oc.keys = nil
}

// Attached reports whether pointer or key input is bound.
func (oc *OrbitControls) Attached() bool {
	return len(oc.detach) > 0 || oc.keys != nil
}

// Drag records a pointer drag of dx, dy pixels. Non-finite drags are ignored.
func (oc *OrbitControls) Drag(dx, dy float64) {
	if !isFinite(dx) || !isFinite(dy) {
		return
	}
	oc.mu.Lock()
	oc.pending[0] -= dx / oc.AngularSensibility
	oc.pending[1] -= dy / oc.AngularSensibility
	oc.mu.Unlock()
}

// Scroll records wheel movement; positive dy zooms in. One notch is 120 wheel units.
// Non-finite values are ignored.
func (oc *OrbitControls) Scroll(dy float64) {
	if !isFinite(dy) {
		return
	}
	oc.mu.Lock()
	oc.pending[2] += dy * 120 / (oc.WheelPrecision * 40)
	oc.mu.Unlock()
}

// Update moves queued pointer offsets and held keys into the camera, then advances it by dt.
func (oc *OrbitControls) Update(dt float64) {
	oc.mu.Lock()
	p := oc.pending
	oc.pending = [3]float64{}
	oc.mu.Unlock()

	oc.camera.AddInertia(p[0], p[1], p[2])

	if oc.keys != nil {
		oc.checkKeys()
	}
	oc.camera.Update(dt)
}

func (oc *OrbitControls) checkKeys() {
	k := oc.keys
	if k.JustPressed(input.ActionResetCamera) {
		oc.camera.AnimateTo(oc.home[0], oc.home[1], oc.home[2], oc.ResetDuration)
		return
	}

	var da, db, dr float64
	if k.IsActive(input.ActionOrbitLeft) {
		da -= oc.KeyAngularSpeed
	}
	if k.IsActive(input.ActionOrbitRight) {
		da += oc.KeyAngularSpeed
	}
	if k.IsActive(input.ActionOrbitUp) {
		db -= oc.KeyAngularSpeed
	}
	if k.IsActive(input.ActionOrbitDown) {
		db += oc.KeyAngularSpeed
	}
	if k.IsActive(input.ActionZoomIn) {
		dr += 1 / oc.KeyZoomSensibility
	}
	if k.IsActive(input.ActionZoomOut) {
		dr -= 1 / oc.KeyZoomSensibility
	}
	if da != 0 || db != 0 || dr != 0 {
		oc.camera.AddInertia(da, db, dr)
	}
}
