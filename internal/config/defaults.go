package config

import (
	"math"
	"time"
)

// ParticleTextureURI is the default point sprite: a 1x1 gray+alpha PNG whose
// single pixel is fully transparent. Override particles.texture_uri to see sprites.
const ParticleTextureURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// Config is the full set of tunables for one scene instance.
type Config struct {
	Window   Window `toml:"window"`
	Scene    Scene  `toml:"scene"`
	Loop     Loop   `toml:"loop"`
	LogLevel string `toml:"log_level"`
}

// Window describes the host surface.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// Transparent asks the window system for an alpha-capable framebuffer.
	Transparent bool `toml:"transparent"`
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float32 `toml:"min"`
	Max float32 `toml:"max"`
}

// Scene groups everything the scene builder needs.
type Scene struct {
	Camera    Camera    `toml:"camera"`
	Light     Light     `toml:"light"`
	Knot      Knot      `toml:"knot"`
	Material  Material  `toml:"material"`
	Particles Particles `toml:"particles"`
}

type Camera struct {
	Alpha            float64    `toml:"alpha"`
	Beta             float64    `toml:"beta"`
	Radius           float64    `toml:"radius"`
	Target           [3]float32 `toml:"target"`
	LowerRadiusLimit float64    `toml:"lower_radius_limit"`
	UpperRadiusLimit float64    `toml:"upper_radius_limit"`
	FOV              float32    `toml:"fov"` // radians
	Near             float32    `toml:"near"`
	Far              float32    `toml:"far"`
}

type Light struct {
	Direction [3]float32 `toml:"direction"`
	Intensity float32    `toml:"intensity"`
}

type Knot struct {
	Radius          float32 `toml:"radius"`
	Tube            float32 `toml:"tube"`
	RadialSegments  int     `toml:"radial_segments"`
	TubularSegments int     `toml:"tubular_segments"`
	P               float32 `toml:"p"`
	Q               float32 `toml:"q"`
}

type Material struct {
	Diffuse       string  `toml:"diffuse"`
	Specular      string  `toml:"specular"`
	Emissive      string  `toml:"emissive"`
	EmissiveScale float32 `toml:"emissive_scale"`
}

type Particles struct {
	Capacity     int        `toml:"capacity"`
	Emitter      [3]float32 `toml:"emitter"`
	MinEmitBox   [3]float32 `toml:"min_emit_box"`
	MaxEmitBox   [3]float32 `toml:"max_emit_box"`
	Size         Range      `toml:"size"`
	LifeTime     Range      `toml:"life_time"`
	EmitRate     float32    `toml:"emit_rate"`
	Additive     bool       `toml:"additive"`
	Color1       [4]float32 `toml:"color1"`
	Color2       [4]float32 `toml:"color2"`
	ColorDead    [4]float32 `toml:"color_dead"`
	Direction1   [3]float32 `toml:"direction1"`
	Direction2   [3]float32 `toml:"direction2"`
	AngularSpeed Range      `toml:"angular_speed"`
	EmitPower    Range      `toml:"emit_power"`
	UpdateSpeed  float32    `toml:"update_speed"`
	TextureURI   string     `toml:"texture_uri"`
	Seed         uint64     `toml:"seed"`
}

// Loop configures the per-tick update applied by the render loop.
type Loop struct {
	RotationStepX float64 `toml:"rotation_step_x"`
	RotationStepY float64 `toml:"rotation_step_y"`

	// TickSeconds is the fixed simulated duration of one tick for camera inertia and tweens.
	TickSeconds float64  `toml:"tick_seconds"`
	FPSLimit    int      `toml:"fps_limit"`
	SlowFrame   Duration `toml:"slow_frame"`
}

// Default returns the stock scene.
func Default() Config {
	return Config{
		Window: Window{
			Title:       "knotscene",
			Width:       800,
			Height:      600,
			Transparent: true,
		},
		Scene:    DefaultScene(),
		Loop:     DefaultLoop(),
		LogLevel: "info",
	}
}

// DefaultScene returns the torus knot, light, camera and particle field.
func DefaultScene() Scene {
	return Scene{
		Camera: Camera{
			Alpha:            -math.Pi / 2,
			Beta:             math.Pi / 2.5,
			Radius:           15,
			LowerRadiusLimit: 10,
			UpperRadiusLimit: 20,
			FOV:              0.8,
			Near:             1,
			Far:              10000,
		},
		Light: Light{
			Direction: [3]float32{0, 1, 0},
			Intensity: 0.7,
		},
		Knot: Knot{
			Radius:          2,
			Tube:            0.5,
			RadialSegments:  128,
			TubularSegments: 64,
			P:               2,
			Q:               3,
		},
		Material: Material{
			Diffuse:       "#5c2d91",
			Specular:      "#42a5f5",
			Emissive:      "#3e1d61",
			EmissiveScale: 0.2,
		},
		Particles: Particles{
			Capacity:     1000,
			MinEmitBox:   [3]float32{-10, -10, -10},
			MaxEmitBox:   [3]float32{10, 10, 10},
			Size:         Range{0.1, 0.3},
			LifeTime:     Range{8, 16},
			EmitRate:     50,
			Additive:     true,
			Color1:       [4]float32{0.7, 0.5, 1.0, 0.1},
			Color2:       [4]float32{0.3, 0.5, 0.7, 0.2},
			ColorDead:    [4]float32{0, 0, 0, 1},
			Direction1:   [3]float32{-1, -1, -1},
			Direction2:   [3]float32{1, 1, 1},
			AngularSpeed: Range{-0.1, 0.1},
			EmitPower:    Range{0.5, 1.0},
			UpdateSpeed:  0.005,
			TextureURI:   ParticleTextureURI,
		},
	}
}

func DefaultLoop() Loop {
	return Loop{
		RotationStepX: 0.002,
		RotationStepY: 0.003,
		TickSeconds:   1.0 / 60.0,
		FPSLimit:      60,
		SlowFrame:     Duration{16 * time.Millisecond},
	}
}
