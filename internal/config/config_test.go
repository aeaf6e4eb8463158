package config

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSceneValues(t *testing.T) {
	s := DefaultScene()

	assert.InDelta(t, -math.Pi/2, s.Camera.Alpha, 1e-12)
	assert.InDelta(t, math.Pi/2.5, s.Camera.Beta, 1e-12)
	assert.Equal(t, 15.0, s.Camera.Radius)
	assert.Equal(t, 10.0, s.Camera.LowerRadiusLimit)
	assert.Equal(t, 20.0, s.Camera.UpperRadiusLimit)

	assert.Equal(t, 128, s.Knot.RadialSegments)
	assert.Equal(t, 64, s.Knot.TubularSegments)

	assert.Equal(t, 1000, s.Particles.Capacity)
	assert.Equal(t, float32(50), s.Particles.EmitRate)
	assert.Equal(t, Range{8, 16}, s.Particles.LifeTime)
	assert.Equal(t, ParticleTextureURI, s.Particles.TextureURI)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	data := `
log_level = "debug"

[window]
width = 1024
height = 768

[scene.particles]
capacity = 200
size = { min = 0.2, max = 0.4 }

[loop]
fps_limit = 30
slow_frame = "20ms"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.Equal(t, "knotscene", cfg.Window.Title)
	assert.Equal(t, 200, cfg.Scene.Particles.Capacity)
	assert.Equal(t, Range{0.2, 0.4}, cfg.Scene.Particles.Size)
	assert.Equal(t, float32(50), cfg.Scene.Particles.EmitRate)
	assert.Equal(t, 30, cfg.Loop.FPSLimit)
	assert.Equal(t, 20*time.Millisecond, cfg.Loop.SlowFrame.Duration)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	err := Decode([]byte("[window]\ncolour = \"red\"\n"), &cfg)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"zero width":    "[window]\nwidth = 0\n",
		"negative fps":  "[loop]\nfps_limit = -1\n",
		"zero tick":     "[loop]\ntick_seconds = 0.0\n",
		"bad log level": "log_level = \"loud\"\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			err := Decode([]byte(data), &cfg)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestSetFPSLimitClamps(t *testing.T) {
	defer SetFPSLimit(GetFPSLimit())

	SetFPSLimit(1000)
	assert.Equal(t, 240, GetFPSLimit())

	SetFPSLimit(-5)
	assert.Equal(t, 0, GetFPSLimit())

	SetFPSLimit(75)
	assert.Equal(t, 75, GetFPSLimit())
}
