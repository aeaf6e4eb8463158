package particles

import (
	"knotscene/internal/graphics"
	"knotscene/internal/graphics/renderer"
	"knotscene/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec4 aColor;
layout(location = 2) in float aSize;
layout(location = 3) in float aAngle;
uniform mat4 view;
uniform mat4 proj;
uniform float viewportHeight;
out vec4 vColor;
out float vAngle;
void main() {
	vec4 clip = proj * view * vec4(aPos, 1.0);
	gl_Position = clip;
	// world-space size projected to pixels
	gl_PointSize = aSize * viewportHeight * proj[1][1] / (2.0 * max(clip.w, 0.0001));
	vColor = aColor;
	vAngle = aAngle;
}
`

const fragmentShader = `#version 410 core
in vec4 vColor;
in float vAngle;
uniform sampler2D diffuse;
out vec4 FragColor;
void main() {
	vec2 p = gl_PointCoord - vec2(0.5);
	float c = cos(vAngle);
	float s = sin(vAngle);
	vec2 uv = vec2(c * p.x - s * p.y, s * p.x + c * p.y) + vec2(0.5);
	FragColor = texture(diffuse, uv) * vColor;
}
`

// position, color, size, angle
const floatsPerParticle = 3 + 4 + 1 + 1

// TextureLoader resolves a texture URI to a GL texture name.
type TextureLoader func(uri string) (uint32, error)

// Particles draws the scene's particle emitter as textured point sprites
type Particles struct {
	load    TextureLoader
	shader  *graphics.Shader
	vao     uint32
	vbo     uint32
	texture uint32
	texURI  string
	loaded  bool
	height  float32

	buf      []float32
	capacity int
}

func New(load TextureLoader) *Particles {
	return &Particles{load: load, height: 1}
}

func (p *Particles) Init() error {
	var err error
	p.shader, err = graphics.NewShader(vertexShader, fragmentShader)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	stride := int32(floatsPerParticle * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 1, gl.FLOAT, false, stride, 7*4)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, stride, 8*4)
	gl.BindVertexArray(0)
	return nil
}

// ensureBuffer sizes the VBO for the emitter's capacity.
func (p *Particles) ensureBuffer(capacity int) {
	if capacity == p.capacity {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*floatsPerParticle*4, nil, gl.DYNAMIC_DRAW)
	p.buf = make([]float32, 0, capacity*floatsPerParticle)
	p.capacity = capacity
}

// ensureTexture loads the emitter texture once per URI. A texture that
// fails to load hides the particles without failing the frame.
func (p *Particles) ensureTexture(uri string) bool {
	if p.loaded && uri == p.texURI {
		return p.texture != 0
	}
	if p.load == nil {
		return false
	}
	tex, err := p.load(uri)
	p.loaded, p.texURI = true, uri
	if err != nil {
		p.texture = 0
		return false
	}
	p.texture = tex
	return true
}

func (p *Particles) Render(f *renderer.Frame) {
	em := f.Scene.Particles
	if em == nil {
		return
	}
	alive := em.Particles()
	if len(alive) == 0 {
		return
	}
	opts := em.Options()
	if !p.ensureTexture(opts.TextureURI) {
		return
	}
	p.ensureBuffer(em.Capacity())

	p.buf = p.buf[:0]
	for i := range alive {
		pt := &alive[i]
		p.buf = append(p.buf,
			pt.Position[0], pt.Position[1], pt.Position[2],
			pt.Color.R, pt.Color.G, pt.Color.B, pt.Color.A,
			pt.Size, pt.Angle,
		)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(false)
	gl.Enable(gl.BLEND)
	if opts.BlendMode == scene.BlendAdd {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	} else {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	p.shader.Use()
	p.shader.SetMatrix4("view", &f.View)
	p.shader.SetMatrix4("proj", &f.Proj)
	p.shader.SetFloat("viewportHeight", p.height)
	p.shader.SetInt("diffuse", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(p.buf)*4, gl.Ptr(p.buf))
	gl.DrawArrays(gl.POINTS, 0, int32(len(alive)))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (p *Particles) SetViewport(width, height int) {
	p.height = float32(height)
}

// Dispose releases buffers and the program. The texture belongs to the loader's cache.
func (p *Particles) Dispose() {
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
		p.vbo = 0
	}
	if p.shader != nil {
		p.shader.Delete()
		p.shader = nil
	}
	p.texture, p.texURI, p.loaded = 0, "", false
	p.capacity = 0
}

var _ renderer.Renderable = (*Particles)(nil)
