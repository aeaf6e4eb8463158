// Package backend assembles the OpenGL renderer for a window.
package backend

import (
	"fmt"
	"log/slog"
	"strings"

	"knotscene/internal/graphics"
	"knotscene/internal/graphics/renderables/knot"
	"knotscene/internal/graphics/renderables/overlay"
	"knotscene/internal/graphics/renderables/particles"
	"knotscene/internal/graphics/renderer"
	"knotscene/internal/profiling"
	"knotscene/internal/surface"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// device is the OpenGL 4.1 core pipeline state shared by all renderables.
type device struct {
	logger      *slog.Logger
	textures    *graphics.TextureCache
	maxViewport [2]int32
}

func (d *device) Setup() error {
	// Initialize OpenGL bindings against the current context
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init gl: %w", err)
	}
	d.logger.Info("opengl ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.GetIntegerv(gl.MAX_VIEWPORT_DIMS, &d.maxViewport[0])
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	return d.Err()
}

func (d *device) Viewport(width, height int) error {
	if int32(width) > d.maxViewport[0] || int32(height) > d.maxViewport[1] {
		return fmt.Errorf("viewport %dx%d exceeds maximum %dx%d", width, height, d.maxViewport[0], d.maxViewport[1])
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

func (d *device) Clear(c mgl32.Vec4) {
	gl.DepthMask(true)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Err drains the GL error queue.
func (d *device) Err() error {
	var codes []string
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		codes = append(codes, fmt.Sprintf("0x%04x", code))
		if len(codes) == 8 {
			break
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return fmt.Errorf("gl error %s", strings.Join(codes, ", "))
}

func (d *device) Release() {
	d.textures.Release()
}

// Option configures New.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	profiler *profiling.Recorder
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProfiler adds an on-screen overlay of rec's timings, shown while rec is enabled.
func WithProfiler(rec *profiling.Recorder) Option {
	return func(o *options) { o.profiler = rec }
}

// New returns the OpenGL backend for s. When s is a *graphics.Window its
// context is made current first.
func New(s surface.Surface, opts ...Option) (renderer.Backend, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if w, ok := s.(*graphics.Window); ok {
		if err := w.MakeContextCurrent(); err != nil {
			return nil, err
		}
	}

	textures := graphics.NewTextureCache()
	rs := []renderer.Renderable{
		knot.New(),
		particles.New(textures.Get),
	}
	if o.profiler != nil {
		rs = append(rs, overlay.New(o.profiler))
	}
	return renderer.NewRenderer(&device{logger: o.logger, textures: textures}, rs...), nil
}
