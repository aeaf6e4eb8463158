package scene

import (
	"knotscene/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// HemisphericLight is an ambient light that blends Diffuse and GroundColor
// by how much a normal faces Direction.
type HemisphericLight struct {
	Name        string
	Direction   mgl32.Vec3
	Intensity   float32
	Diffuse     Color3
	Specular    Color3
	GroundColor Color3
}

func NewHemisphericLight(name string, cfg config.Light) HemisphericLight {
	dir := mgl32.Vec3(cfg.Direction)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return HemisphericLight{
		Name:      name,
		Direction: dir,
		Intensity: cfg.Intensity,
		Diffuse:   Color3{1, 1, 1},
		Specular:  Color3{1, 1, 1},
	}
}
