package scene

import (
	"math"
	"testing"

	"knotscene/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScene(t *testing.T) {
	s, err := Build(config.DefaultScene())
	require.NoError(t, err)

	assert.InDelta(t, -math.Pi/2, s.Camera.Alpha(), 1e-9)
	assert.InDelta(t, math.Pi/2.5, s.Camera.Beta(), 1e-9)
	assert.Equal(t, 15.0, s.Camera.Radius())
	lower, upper := s.Camera.RadiusLimits()
	assert.Equal(t, 10.0, lower)
	assert.Equal(t, 20.0, upper)

	assert.Equal(t, float32(0.7), s.Light.Intensity)
	assert.Equal(t, float32(1), s.Light.Direction.Y())

	assert.Same(t, s.Material, s.Knot.Material)
	assert.Zero(t, s.ClearColor.W())

	x, y := s.Knot.Rotation()
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestMaterialColors(t *testing.T) {
	mat, err := NewStandardMaterial("m", config.DefaultScene().Material)
	require.NoError(t, err)

	assert.InDelta(t, 0x5c/255.0, mat.Diffuse.R, 1e-6)
	assert.InDelta(t, 0x2d/255.0, mat.Diffuse.G, 1e-6)
	assert.InDelta(t, 0x91/255.0, mat.Diffuse.B, 1e-6)

	assert.InDelta(t, 0x42/255.0, mat.Specular.R, 1e-6)
	assert.InDelta(t, 0xf5/255.0, mat.Specular.B, 1e-6)

	// emissive is the hex color times 0.2 and nothing more
	assert.InDelta(t, 0x3e/255.0*0.2, mat.Emissive.R, 1e-6)
	assert.InDelta(t, 0x1d/255.0*0.2, mat.Emissive.G, 1e-6)
	assert.InDelta(t, 0x61/255.0*0.2, mat.Emissive.B, 1e-6)
}

func TestColor3FromHexErrors(t *testing.T) {
	for _, in := range []string{"", "#fff", "#gggggg", "5c2d9100"} {
		_, err := Color3FromHex(in)
		assert.Error(t, err, in)
	}
	c, err := Color3FromHex("ffffff")
	require.NoError(t, err)
	assert.Equal(t, Color3{1, 1, 1}, c)
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultScene()
	cfg.Particles.Size = config.Range{Min: 0.3, Max: 0.1}
	_, err := Build(cfg)
	require.ErrorIs(t, err, ErrInvalidRange)

	cfg = config.DefaultScene()
	cfg.Knot.TubularSegments = 2
	_, err = Build(cfg)
	require.ErrorIs(t, err, ErrInvalidGeometry)

	cfg = config.DefaultScene()
	cfg.Material.Emissive = "purple"
	_, err = Build(cfg)
	require.Error(t, err)
}

func TestAdvanceAfterDispose(t *testing.T) {
	s, err := Build(config.DefaultScene())
	require.NoError(t, err)

	require.NoError(t, s.Advance(1.0/60))
	assert.Equal(t, uint64(1), s.Ticks())

	s.Dispose()
	s.Dispose()
	assert.True(t, s.Disposed())
	assert.ErrorIs(t, s.Advance(1.0/60), ErrDisposed)
	assert.Zero(t, s.Particles.AliveCount())
	assert.False(t, s.Particles.IsActive())
}

func TestMeshRotationWraps(t *testing.T) {
	m := NewMesh("m", nil, nil)
	const n = 5000
	for range n {
		m.Rotate(0.002, 0.003)
	}
	x, y := m.Rotation()
	assert.InDelta(t, math.Mod(0.002*n, 2*math.Pi), x, 1e-9)
	assert.InDelta(t, math.Mod(0.003*n, 2*math.Pi), y, 1e-9)
	assert.Less(t, x, 2*math.Pi)
	assert.Less(t, y, 2*math.Pi)

	m.Rotate(-10, 0)
	x, _ = m.Rotation()
	assert.GreaterOrEqual(t, x, 0.0)
}
