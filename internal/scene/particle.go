package scene

import (
	"fmt"
	"math/rand/v2"

	"knotscene/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// BlendMode is the compositing operation used to draw particles.
type BlendMode int

const (
	BlendStandard BlendMode = iota
	BlendAdd
)

func (b BlendMode) String() string {
	switch b {
	case BlendAdd:
		return "add"
	default:
		return "standard"
	}
}

// Range is an inclusive [Min, Max] interval sampled uniformly.
type Range struct {
	Min, Max float32
}

func rangeFrom(r config.Range) Range {
	return Range{r.Min, r.Max}
}

// Valid reports Min <= Max.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

func (r Range) sample(rng *rand.Rand) float32 {
	return r.Min + rng.Float32()*(r.Max-r.Min)
}

// Particle is the simulated state of one live point sprite.
type Particle struct {
	Position     mgl32.Vec3
	Direction    mgl32.Vec3
	Color        Color4
	ColorStep    Color4
	Size         float32
	Angle        float32
	AngularSpeed float32
	Age          float32
	LifeTime     float32
}

// EmitterOptions is the validated emitter description.
type EmitterOptions struct {
	Capacity     int
	Emitter      mgl32.Vec3
	MinEmitBox   mgl32.Vec3
	MaxEmitBox   mgl32.Vec3
	Direction1   mgl32.Vec3
	Direction2   mgl32.Vec3
	Size         Range
	LifeTime     Range
	AngularSpeed Range
	EmitPower    Range
	EmitRate     float32
	Color1       Color4
	Color2       Color4
	ColorDead    Color4
	BlendMode    BlendMode
	// UpdateSpeed is the simulated time one tick advances.
	UpdateSpeed float32
	TextureURI  string
	Seed        uint64
}

// EmitterOptionsFrom converts a config block.
func EmitterOptionsFrom(cfg config.Particles) EmitterOptions {
	blend := BlendStandard
	if cfg.Additive {
		blend = BlendAdd
	}
	return EmitterOptions{
		Capacity:     cfg.Capacity,
		Emitter:      mgl32.Vec3(cfg.Emitter),
		MinEmitBox:   mgl32.Vec3(cfg.MinEmitBox),
		MaxEmitBox:   mgl32.Vec3(cfg.MaxEmitBox),
		Direction1:   mgl32.Vec3(cfg.Direction1),
		Direction2:   mgl32.Vec3(cfg.Direction2),
		Size:         rangeFrom(cfg.Size),
		LifeTime:     rangeFrom(cfg.LifeTime),
		AngularSpeed: rangeFrom(cfg.AngularSpeed),
		EmitPower:    rangeFrom(cfg.EmitPower),
		EmitRate:     cfg.EmitRate,
		Color1:       Color4From(cfg.Color1),
		Color2:       Color4From(cfg.Color2),
		ColorDead:    Color4From(cfg.ColorDead),
		BlendMode:    blend,
		UpdateSpeed:  cfg.UpdateSpeed,
		TextureURI:   cfg.TextureURI,
		Seed:         cfg.Seed,
	}
}

// Validate checks the emitter invariants: every range ordered, the box ordered
// componentwise, positive capacity and non-negative rates.
func (o EmitterOptions) Validate() error {
	if o.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d must be positive", ErrInvalidRange, o.Capacity)
	}
	ranges := []struct {
		name string
		r    Range
	}{
		{"size", o.Size},
		{"life time", o.LifeTime},
		{"angular speed", o.AngularSpeed},
		{"emit power", o.EmitPower},
	}
	for _, nr := range ranges {
		if !nr.r.Valid() {
			return fmt.Errorf("%w: %s min %v > max %v", ErrInvalidRange, nr.name, nr.r.Min, nr.r.Max)
		}
	}
	if o.LifeTime.Min <= 0 {
		return fmt.Errorf("%w: life time min %v must be positive", ErrInvalidRange, o.LifeTime.Min)
	}
	for i := range 3 {
		if o.MinEmitBox[i] > o.MaxEmitBox[i] {
			return fmt.Errorf("%w: emit box min %v exceeds max %v", ErrInvalidRange, o.MinEmitBox, o.MaxEmitBox)
		}
	}
	if o.EmitRate < 0 || o.UpdateSpeed < 0 {
		return fmt.Errorf("%w: emit rate %v and update speed %v must not be negative", ErrInvalidRange, o.EmitRate, o.UpdateSpeed)
	}
	return nil
}

// ParticleEmitter is a fixed-capacity pool of particles spawned inside a box.
// It starts emitting as soon as it is created.
type ParticleEmitter struct {
	Name string

	opts      EmitterOptions
	rng       *rand.Rand
	particles []Particle
	alive     int
	excess    float32
	active    bool
	disposed  bool
}

// NewParticleEmitter validates opts, preallocates the pool and starts emitting.
func NewParticleEmitter(name string, opts EmitterOptions) (*ParticleEmitter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("emitter %s: %w", name, err)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &ParticleEmitter{
		Name:      name,
		opts:      opts,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		particles: make([]Particle, opts.Capacity),
		active:    true,
	}, nil
}

// Options returns the emitter description.
func (e *ParticleEmitter) Options() EmitterOptions {
	return e.opts
}

// Capacity returns the maximum number of live particles.
func (e *ParticleEmitter) Capacity() int {
	return len(e.particles)
}

// EmitRate returns particles spawned per simulated second.
func (e *ParticleEmitter) EmitRate() float32 {
	return e.opts.EmitRate
}

// Start resumes emission. It is a no-op once disposed.
func (e *ParticleEmitter) Start() {
	if !e.disposed {
		e.active = true
	}
}

// Stop stops emitting new particles. Live particles keep aging out.
func (e *ParticleEmitter) Stop() {
	e.active = false
}

// Reset stops emission and kills every live particle.
func (e *ParticleEmitter) Reset() {
	e.active = false
	e.alive = 0
	e.excess = 0
}

// IsActive reports whether the emitter is spawning new particles.
func (e *ParticleEmitter) IsActive() bool {
	return e.active
}

// AliveCount returns the number of live particles.
func (e *ParticleEmitter) AliveCount() int {
	return e.alive
}

// Particles returns the live particles. The slice is reused by the next Animate.
func (e *ParticleEmitter) Particles() []Particle {
	return e.particles[:e.alive]
}

// Animate advances the simulation by one tick of UpdateSpeed simulated seconds.
func (e *ParticleEmitter) Animate() {
	if e.disposed {
		return
	}
	step := e.opts.UpdateSpeed

	// Age and move live particles, swap-removing the dead.
	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.Age += step
		if p.Age >= p.LifeTime {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}

		p.Color.R += p.ColorStep.R * step
		p.Color.G += p.ColorStep.G * step
		p.Color.B += p.ColorStep.B * step
		p.Color.A += p.ColorStep.A * step
		if p.Color.A < 0 {
			p.Color.A = 0
		}
		p.Angle += p.AngularSpeed * step
		p.Position = p.Position.Add(p.Direction.Mul(step))
		i++
	}

	if !e.active {
		return
	}

	// Whole particles this tick, carrying the fraction forward.
	want := e.opts.EmitRate * step
	n := int(want)
	e.excess += want - float32(n)
	if e.excess >= 1 {
		extra := int(e.excess)
		n += extra
		e.excess -= float32(extra)
	}
	for ; n > 0 && e.alive < len(e.particles); n-- {
		e.spawn(&e.particles[e.alive])
		e.alive++
	}
}

func (e *ParticleEmitter) spawn(p *Particle) {
	o := &e.opts
	rng := e.rng

	p.Age = 0
	p.LifeTime = o.LifeTime.sample(rng)

	power := o.EmitPower.sample(rng)
	p.Direction = mgl32.Vec3{
		lerp(o.Direction1[0], o.Direction2[0], rng.Float32()),
		lerp(o.Direction1[1], o.Direction2[1], rng.Float32()),
		lerp(o.Direction1[2], o.Direction2[2], rng.Float32()),
	}.Mul(power)

	p.Position = o.Emitter.Add(mgl32.Vec3{
		lerp(o.MinEmitBox[0], o.MaxEmitBox[0], rng.Float32()),
		lerp(o.MinEmitBox[1], o.MaxEmitBox[1], rng.Float32()),
		lerp(o.MinEmitBox[2], o.MaxEmitBox[2], rng.Float32()),
	})

	p.Size = o.Size.sample(rng)
	p.Angle = 0
	p.AngularSpeed = o.AngularSpeed.sample(rng)

	p.Color = o.Color1.Lerp(o.Color2, rng.Float32())
	inv := 1 / p.LifeTime
	p.ColorStep = Color4{
		R: (o.ColorDead.R - p.Color.R) * inv,
		G: (o.ColorDead.G - p.Color.G) * inv,
		B: (o.ColorDead.B - p.Color.B) * inv,
		A: (o.ColorDead.A - p.Color.A) * inv,
	}
}

// Dispose stops emission and releases the pool. Safe to call more than once.
func (e *ParticleEmitter) Dispose() {
	e.Reset()
	e.particles = nil
	e.disposed = true
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
