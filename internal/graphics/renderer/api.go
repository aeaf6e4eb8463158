package renderer

import (
	"knotscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Frame provides shared per-frame state for all renderables
type Frame struct {
	Index          uint64
	Width, Height  int
	ClearColor     mgl32.Vec4
	View           mgl32.Mat4
	Proj           mgl32.Mat4
	Model          mgl32.Mat4
	CameraPosition mgl32.Vec3
	Scene          *scene.Scene
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(f *Frame)
	Dispose()
	SetViewport(width, height int)
}

// Backend is the GPU side of a RenderContext. All calls happen on the render thread.
type Backend interface {
	Init(width, height int) error
	Resize(width, height int) error
	Draw(f *Frame) error
	Dispose() error
}

// Device is the global pipeline state a Renderer drives around its renderables.
type Device interface {
	Setup() error
	Viewport(width, height int) error
	Clear(color mgl32.Vec4)
	// Err reports a failure raised while drawing the current frame, if any.
	Err() error
	Release()
}
