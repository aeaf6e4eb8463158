package graphics

import (
	"errors"

	"knotscene/internal/graphics/fontatlas"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const fontVertexShader = `#version 410 core
layout(location = 0) in vec4 vertex; // xy = position, zw = uv
uniform mat4 projection;
out vec2 uv;
void main() {
	gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
	uv = vertex.zw;
}
`

const fontFragmentShader = `#version 410 core
in vec2 uv;
uniform sampler2D text;
uniform vec3 textColor;
out vec4 color;
void main() {
	color = vec4(textColor, texture(text, uv).r);
}
`

// FontRenderer renders ASCII text strings using a baked atlas
type FontRenderer struct {
	atlas      *fontatlas.Atlas
	texture    uint32
	shader     *Shader
	projection mgl32.Mat4
	vao        uint32
	vbo        uint32
	vertices   []float32
}

// NewFontRenderer uploads the atlas and compiles the text shader
func NewFontRenderer(atlas *fontatlas.Atlas) (*FontRenderer, error) {
	if atlas == nil || len(atlas.Glyphs) == 0 {
		return nil, errors.New("invalid font atlas")
	}
	shader, err := NewShader(fontVertexShader, fontFragmentShader)
	if err != nil {
		return nil, err
	}
	fr := &FontRenderer{
		atlas:      atlas,
		shader:     shader,
		projection: mgl32.Ortho(0, 1, 1, 0, 0, 1),
	}
	fr.initGL()
	return fr, nil
}

func (fr *FontRenderer) initGL() {
	// Upload atlas as GL_RED with tight byte alignment
	img := fr.atlas.Image
	gl.GenTextures(1, &fr.texture)
	gl.BindTexture(gl.TEXTURE_2D, fr.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenVertexArrays(1, &fr.vao)
	gl.GenBuffers(1, &fr.vbo)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// SetViewport maps text coordinates to pixels with a top-left origin
func (fr *FontRenderer) SetViewport(width, height int) {
	fr.projection = mgl32.Ortho(0, float32(width), float32(height), 0, 0, 1)
}

// LineHeight returns the baseline-to-baseline distance at scale 1
func (fr *FontRenderer) LineHeight() float32 {
	return float32(fr.atlas.LineHeight)
}

// RenderLines draws multiple lines of text in a single pass to minimize GL state changes.
// Lines start at (x, yStart) and are lineStep pixels apart.
func (fr *FontRenderer) RenderLines(lines []string, x, yStart, lineStep, scale float32, color mgl32.Vec3) {
	fr.vertices = fr.vertices[:0]
	y := yStart
	for _, line := range lines {
		fr.vertices = fr.atlas.Layout(fr.vertices, line, x, y, scale)
		y += lineStep
	}
	if len(fr.vertices) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	fr.shader.Use()
	fr.shader.SetVector3("textColor", color)
	fr.shader.SetMatrix4("projection", &fr.projection)
	fr.shader.SetInt("text", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fr.texture)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)

	// Orphan, then upload
	size := len(fr.vertices) * 4
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.STREAM_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(fr.vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(fr.vertices)/4))

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
}

// Dispose releases the atlas texture, buffers and program
func (fr *FontRenderer) Dispose() {
	if fr.vao != 0 {
		gl.DeleteVertexArrays(1, &fr.vao)
		fr.vao = 0
	}
	if fr.vbo != 0 {
		gl.DeleteBuffers(1, &fr.vbo)
		fr.vbo = 0
	}
	if fr.texture != 0 {
		gl.DeleteTextures(1, &fr.texture)
		fr.texture = 0
	}
	fr.shader.Delete()
}
