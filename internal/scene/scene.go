// Package scene builds and simulates the background scene: an orbit camera,
// a hemispheric light, a rotating torus knot and a particle field.
//
// Nothing here touches the GPU. The render context reads the scene each frame.
package scene

import (
	"errors"
	"fmt"

	"knotscene/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidRange    = errors.New("invalid range")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrDisposed        = errors.New("scene disposed")
)

// Scene is the acyclic set of entities drawn together each frame.
type Scene struct {
	ClearColor mgl32.Vec4

	Camera    *OrbitCamera
	Controls  *OrbitControls
	Light     HemisphericLight
	Knot      *Mesh
	Material  *StandardMaterial
	Particles *ParticleEmitter

	ticks    uint64
	disposed bool
}

// Build constructs the scene described by cfg. It has no side effects beyond
// the returned value; the particle emitter is already running.
func Build(cfg config.Scene) (*Scene, error) {
	geom, err := NewTorusKnot(cfg.Knot)
	if err != nil {
		return nil, fmt.Errorf("knot: %w", err)
	}

	mat, err := NewStandardMaterial("material", cfg.Material)
	if err != nil {
		return nil, err
	}

	emitter, err := NewParticleEmitter("particles", EmitterOptionsFrom(cfg.Particles))
	if err != nil {
		return nil, err
	}

	cam := NewOrbitCamera("camera", cfg.Camera)

	return &Scene{
		Camera:    cam,
		Controls:  NewOrbitControls(cam),
		Light:     NewHemisphericLight("light", cfg.Light),
		Knot:      NewMesh("knot", geom, &mat),
		Material:  &mat,
		Particles: emitter,
	}, nil
}

// Advance runs one tick of simulation: camera input and motion over dt
// seconds, then one particle step. Mesh rotation is driven by the caller.
func (s *Scene) Advance(dt float64) error {
	if s.disposed {
		return ErrDisposed
	}
	s.Controls.Update(dt)
	s.Particles.Animate()
	s.ticks++
	return nil
}

// Ticks returns how many times Advance has run.
func (s *Scene) Ticks() uint64 {
	return s.ticks
}

// Disposed reports whether Dispose has run.
func (s *Scene) Disposed() bool {
	return s.disposed
}

// Dispose detaches controls and releases the particle pool. Later calls do nothing.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.Controls.Detach()
	s.Particles.Dispose()
	s.Knot.Geometry = nil
}
