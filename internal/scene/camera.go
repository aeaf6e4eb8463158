package scene

import (
	"math"

	"knotscene/internal/config"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// inertial offsets below this are dropped
	inertiaEpsilon = 0.001

	defaultLowerBeta = 0.01
	defaultUpperBeta = math.Pi - 0.01
)

// poseAnim holds the tweens of an in-progress AnimateTo.
type poseAnim struct {
	alpha, beta, radius *gween.Tween
	done                [3]bool
}

// OrbitCamera looks at Target from a point on a sphere parameterised by
// azimuth Alpha, polar angle Beta and Radius.
type OrbitCamera struct {
	Name   string
	Target mgl32.Vec3

	FOV  float32 // vertical, radians
	Near float32
	Far  float32

	// Inertia is the per-tick decay applied to pending input offsets.
	Inertia float64

	alpha, beta, radius float64

	lowerRadius, upperRadius float64
	lowerBeta, upperBeta     float64

	inertialAlpha, inertialBeta, inertialRadius float64

	anim *poseAnim
}

// NewOrbitCamera creates a camera from cfg. The radius limits are normalised so lower <= upper.
func NewOrbitCamera(name string, cfg config.Camera) *OrbitCamera {
	lower, upper := cfg.LowerRadiusLimit, cfg.UpperRadiusLimit
	if lower > upper {
		lower, upper = upper, lower
	}
	c := &OrbitCamera{
		Name:        name,
		Target:      mgl32.Vec3(cfg.Target),
		FOV:         cfg.FOV,
		Near:        cfg.Near,
		Far:         cfg.Far,
		Inertia:     0.9,
		alpha:       cfg.Alpha,
		beta:        cfg.Beta,
		radius:      cfg.Radius,
		lowerRadius: lower,
		upperRadius: upper,
		lowerBeta:   defaultLowerBeta,
		upperBeta:   defaultUpperBeta,
	}
	c.checkLimits()
	return c
}

// Alpha returns the azimuth in radians.
func (c *OrbitCamera) Alpha() float64 { return c.alpha }

// Beta returns the polar angle in radians.
func (c *OrbitCamera) Beta() float64 { return c.beta }

// Radius returns the distance to Target; always within RadiusLimits.
func (c *OrbitCamera) Radius() float64 { return c.radius }

// RadiusLimits returns the inclusive radius bounds.
func (c *OrbitCamera) RadiusLimits() (lower, upper float64) {
	return c.lowerRadius, c.upperRadius
}

// AddInertia queues rotation and zoom offsets that are applied and decayed by Update.
// A positive dRadius moves the camera toward the target. Any non-zero
// offset cancels a running AnimateTo. Offsets that are not finite, or would
// make the queued inertia non-finite, are dropped.
func (c *OrbitCamera) AddInertia(dAlpha, dBeta, dRadius float64) {
	dAlpha = finiteSum(c.inertialAlpha, dAlpha)
	dBeta = finiteSum(c.inertialBeta, dBeta)
	dRadius = finiteSum(c.inertialRadius, dRadius)
	if dAlpha == 0 && dBeta == 0 && dRadius == 0 {
		return
	}
	c.anim = nil
	c.inertialAlpha += dAlpha
	c.inertialBeta += dBeta
	c.inertialRadius += dRadius
}

// finiteSum returns d, or 0 when d or acc+d is not finite.
func finiteSum(acc, d float64) float64 {
	if !isFinite(d) || !isFinite(acc+d) {
		return 0
	}
	return d
}

const maxTweenAngle = 1e6

func foldAngle(a float64) float64 {
	if math.Abs(a) > maxTweenAngle {
		return math.Remainder(a, 2*math.Pi)
	}
	return a
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AnimateTo tweens alpha, beta and radius to the given pose over duration seconds.
// Pending inertia is discarded; the target radius is clamped to the limits.
// A non-finite target alpha keeps the current one.
func (c *OrbitCamera) AnimateTo(alpha, beta, radius float64, duration float32) {
	// tweens run in float32; fold huge angles back into one turn first
	c.alpha = foldAngle(c.alpha)
	if !isFinite(alpha) {
		alpha = c.alpha
	}
	alpha = foldAngle(alpha)
	radius = clamp(radius, c.lowerRadius, c.upperRadius)
	beta = clamp(beta, c.lowerBeta, c.upperBeta)
	c.inertialAlpha, c.inertialBeta, c.inertialRadius = 0, 0, 0
	c.anim = &poseAnim{
		alpha:  gween.New(float32(c.alpha), float32(alpha), duration, ease.OutCubic),
		beta:   gween.New(float32(c.beta), float32(beta), duration, ease.OutCubic),
		radius: gween.New(float32(c.radius), float32(radius), duration, ease.OutCubic),
	}
}

// Animating reports whether an AnimateTo is in progress.
func (c *OrbitCamera) Animating() bool {
	return c.anim != nil
}

// Update advances one tick of dt seconds: either the running animation or
// the inertial offsets, then clamps beta and radius.
func (c *OrbitCamera) Update(dt float64) {
	if c.anim != nil {
		c.updateAnim(float32(dt))
		c.checkLimits()
		return
	}

	if c.inertialAlpha != 0 || c.inertialBeta != 0 || c.inertialRadius != 0 {
		if a := c.alpha + c.inertialAlpha; isFinite(a) {
			c.alpha = a
		}
		c.beta += c.inertialBeta
		c.radius -= c.inertialRadius

		c.inertialAlpha = decay(c.inertialAlpha, c.Inertia)
		c.inertialBeta = decay(c.inertialBeta, c.Inertia)
		c.inertialRadius = decay(c.inertialRadius, c.Inertia)
	}
	c.checkLimits()
}

func (c *OrbitCamera) updateAnim(dt float32) {
	a := c.anim
	tweens := [3]*gween.Tween{a.alpha, a.beta, a.radius}
	fields := [3]*float64{&c.alpha, &c.beta, &c.radius}
	for i, tw := range tweens {
		if a.done[i] {
			continue
		}
		val, finished := tw.Update(dt)
		*fields[i] = float64(val)
		a.done[i] = finished
	}
	if a.done[0] && a.done[1] && a.done[2] {
		c.anim = nil
	}
}

func (c *OrbitCamera) checkLimits() {
	c.beta = clamp(c.beta, c.lowerBeta, c.upperBeta)
	c.radius = clamp(c.radius, c.lowerRadius, c.upperRadius)
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sb := math.Sin(c.beta)
	return c.Target.Add(mgl32.Vec3{
		float32(c.radius * math.Cos(c.alpha) * sb),
		float32(c.radius * math.Cos(c.beta)),
		float32(c.radius * math.Sin(c.alpha) * sb),
	})
}

func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given output size.
func (c *OrbitCamera) ProjectionMatrix(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

func decay(v, inertia float64) float64 {
	v *= inertia
	if math.Abs(v) < inertiaEpsilon {
		return 0
	}
	return v
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
