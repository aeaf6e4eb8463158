package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const twoPi = 2 * math.Pi

// Mesh is immutable geometry plus a material and an accumulated rotation.
type Mesh struct {
	Name     string
	Geometry *Geometry
	Material *StandardMaterial

	rotX, rotY float64
}

func NewMesh(name string, g *Geometry, mat *StandardMaterial) *Mesh {
	return &Mesh{Name: name, Geometry: g, Material: mat}
}

// Rotate adds to the x and y rotation angles, keeping both in [0, 2π).
func (m *Mesh) Rotate(dx, dy float64) {
	m.rotX = wrapAngle(m.rotX + dx)
	m.rotY = wrapAngle(m.rotY + dy)
}

// Rotation returns the current x and y angles in radians.
func (m *Mesh) Rotation() (x, y float64) {
	return m.rotX, m.rotY
}

// ModelMatrix applies pitch (x) then yaw (y).
func (m *Mesh) ModelMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(float32(m.rotY)).Mul4(mgl32.HomogRotate3DX(float32(m.rotX)))
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
