package scene

import (
	"math"
	"math/rand/v2"
	"testing"

	"knotscene/internal/config"
	"knotscene/internal/input"
	"knotscene/internal/surface/surfacetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyState struct {
	held    map[input.Action]bool
	pressed map[input.Action]bool
}

func newKeyState() *keyState {
	return &keyState{held: map[input.Action]bool{}, pressed: map[input.Action]bool{}}
}

func (k *keyState) IsActive(a input.Action) bool { return k.held[a] }
func (k *keyState) JustPressed(a input.Action) bool { return k.pressed[a] }

func newCamera(t *testing.T) *OrbitCamera {
	t.Helper()
	return NewOrbitCamera("cam", config.DefaultScene().Camera)
}

func TestCameraRadiusClampedOnCreate(t *testing.T) {
	cfg := config.DefaultScene().Camera
	cfg.Radius = 50
	cam := NewOrbitCamera("cam", cfg)
	assert.Equal(t, 20.0, cam.Radius())

	cfg.Radius = 1
	cfg.LowerRadiusLimit, cfg.UpperRadiusLimit = 20, 10
	cam = NewOrbitCamera("cam", cfg)
	assert.Equal(t, 10.0, cam.Radius())
}

func TestCameraInertiaDecays(t *testing.T) {
	cam := newCamera(t)
	a0 := cam.Alpha()
	cam.AddInertia(0.1, 0, 0)

	cam.Update(1.0 / 60)
	assert.InDelta(t, a0+0.1, cam.Alpha(), 1e-9)
	cam.Update(1.0 / 60)
	assert.InDelta(t, a0+0.1+0.09, cam.Alpha(), 1e-9)

	for range 200 {
		cam.Update(1.0 / 60)
	}
	settled := cam.Alpha()
	cam.Update(1.0 / 60)
	assert.Equal(t, settled, cam.Alpha())
}

func TestCameraRadiusStaysInLimits(t *testing.T) {
	s, err := Build(config.DefaultScene())
	require.NoError(t, err)
	src := surfacetest.New(800, 600)
	keys := newKeyState()
	s.Controls.Attach(src, keys)

	rng := rand.New(rand.NewPCG(1, 2))
	zooms := []input.Action{input.ActionZoomIn, input.ActionZoomOut}
	bad := []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.MaxFloat64}
	for i := range 5000 {
		switch rng.IntN(8) {
		case 0:
			src.Scroll(rng.Float64()*40 - 20)
		case 1:
			src.Drag(rng.Float64()*400-200, rng.Float64()*400-200)
		case 2:
			keys.held = map[input.Action]bool{zooms[rng.IntN(2)]: true}
		case 3:
			s.Camera.AnimateTo(0, 1, rng.Float64()*100-50, 0.2)
		case 4:
			src.Scroll(bad[rng.IntN(len(bad))])
		case 5:
			src.Drag(bad[rng.IntN(len(bad))], bad[rng.IntN(len(bad))])
		case 6:
			s.Camera.AnimateTo(bad[rng.IntN(len(bad))], bad[rng.IntN(len(bad))], bad[rng.IntN(len(bad))], 0.2)
		default:
			keys.held = map[input.Action]bool{}
		}
		require.NoError(t, s.Advance(1.0/60))

		r := s.Camera.Radius()
		if r < 10 || r > 20 {
			t.Fatalf("tick %d: radius %v outside [10, 20]", i, r)
		}
		b := s.Camera.Beta()
		if b <= 0 || b >= math.Pi {
			t.Fatalf("tick %d: beta %v outside (0, pi)", i, b)
		}
		if a := s.Camera.Alpha(); math.IsNaN(a) || math.IsInf(a, 0) {
			t.Fatalf("tick %d: alpha %v is not finite", i, a)
		}
	}
}

func TestCameraIgnoresNonFiniteInput(t *testing.T) {
	cam := newCamera(t)
	oc := NewOrbitControls(cam)
	src := surfacetest.New(800, 600)
	oc.Attach(src, nil)

	src.Scroll(math.NaN())
	src.Drag(math.Inf(1), 0)
	src.Drag(0, math.NaN())
	oc.Update(1.0 / 60)
	assert.Equal(t, 15.0, cam.Radius())
	assert.InDelta(t, -math.Pi/2, cam.Alpha(), 1e-12)

	cam.AddInertia(math.NaN(), math.Inf(-1), math.NaN())
	assert.False(t, cam.Animating())
	cam.Update(1.0 / 60)
	assert.Equal(t, 15.0, cam.Radius())

	src.Scroll(1)
	oc.Update(1.0 / 60)
	assert.InDelta(t, 14.0, cam.Radius(), 1e-9, "input still works afterwards")
}

func TestControlsScrollZoomsIn(t *testing.T) {
	cam := newCamera(t)
	oc := NewOrbitControls(cam)
	src := surfacetest.New(800, 600)
	oc.Attach(src, nil)

	src.Scroll(1)
	oc.Update(1.0 / 60)
	// one notch at precision 3 is 120 / (3 * 40) = 1 unit
	assert.InDelta(t, 14.0, cam.Radius(), 1e-9)
}

func TestControlsDragRotates(t *testing.T) {
	cam := newCamera(t)
	oc := NewOrbitControls(cam)
	src := surfacetest.New(800, 600)
	oc.Attach(src, nil)

	a0, b0 := cam.Alpha(), cam.Beta()
	src.Drag(100, 50)
	oc.Update(1.0 / 60)
	assert.InDelta(t, a0-0.1, cam.Alpha(), 1e-9)
	assert.InDelta(t, b0-0.05, cam.Beta(), 1e-9)
}

func TestControlsDetach(t *testing.T) {
	cam := newCamera(t)
	oc := NewOrbitControls(cam)
	src := surfacetest.New(800, 600)
	detach := oc.Attach(src, newKeyState())
	assert.True(t, oc.Attached())
	assert.Equal(t, 2, src.PointerListeners())

	detach()
	detach()
	assert.False(t, oc.Attached())
	assert.Zero(t, src.PointerListeners())

	r0 := cam.Radius()
	src.Scroll(5)
	oc.Update(1.0 / 60)
	assert.Equal(t, r0, cam.Radius())
}

func TestControlsResetAnimatesHome(t *testing.T) {
	cam := newCamera(t)
	oc := NewOrbitControls(cam)
	keys := newKeyState()
	oc.Attach(nil, keys)

	keys.held[input.ActionZoomOut] = true
	keys.held[input.ActionOrbitRight] = true
	for range 120 {
		oc.Update(1.0 / 60)
	}
	keys.held = map[input.Action]bool{}
	for range 120 {
		oc.Update(1.0 / 60)
	}
	require.Greater(t, cam.Radius(), 15.0)

	keys.pressed[input.ActionResetCamera] = true
	oc.Update(1.0 / 60)
	keys.pressed = map[input.Action]bool{}
	assert.True(t, cam.Animating())

	for range 90 {
		oc.Update(1.0 / 60)
	}
	assert.False(t, cam.Animating())
	assert.InDelta(t, -math.Pi/2, cam.Alpha(), 1e-5)
	assert.InDelta(t, math.Pi/2.5, cam.Beta(), 1e-5)
	assert.InDelta(t, 15.0, cam.Radius(), 1e-5)
}

func TestAnimateToCancelledByInput(t *testing.T) {
	cam := newCamera(t)
	cam.AnimateTo(0, 1, 12, 1)
	require.True(t, cam.Animating())
	cam.AddInertia(0, 0, 0)
	assert.True(t, cam.Animating())
	cam.AddInertia(0.01, 0, 0)
	assert.False(t, cam.Animating())
}

func TestProjectionAspect(t *testing.T) {
	cam := newCamera(t)
	wide := cam.ProjectionMatrix(1024, 768)
	tall := cam.ProjectionMatrix(768, 1024)
	// x scale is f / aspect
	assert.InDelta(t, wide.At(0, 0)*1024/768, wide.At(1, 1), 1e-4)
	assert.InDelta(t, tall.At(0, 0)*768/1024, tall.At(1, 1), 1e-4)

	degenerate := cam.ProjectionMatrix(0, 0)
	assert.InDelta(t, degenerate.At(0, 0), degenerate.At(1, 1), 1e-6)
}

func TestCameraPositionAtRadius(t *testing.T) {
	cam := newCamera(t)
	d := cam.Position().Sub(cam.Target).Len()
	assert.InDelta(t, 15.0, float64(d), 1e-4)
}
