package knot

import (
	"knotscene/internal/graphics"
	"knotscene/internal/graphics/renderer"
	"knotscene/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
uniform mat4 model;
uniform mat4 view;
uniform mat4 proj;
out vec3 vPositionW;
out vec3 vNormalW;
void main() {
	vec4 world = model * vec4(aPos, 1.0);
	vPositionW = world.xyz;
	vNormalW = normalize(mat3(model) * aNormal);
	gl_Position = proj * view * world;
}
`

// Hemispheric light: diffuse blends ground to sky color by the normal's
// alignment with the light direction; Blinn-Phong specular; emissive added last.
const fragmentShader = `#version 410 core
in vec3 vPositionW;
in vec3 vNormalW;
uniform vec3 eye;
uniform vec3 lightDir;
uniform vec3 lightDiffuse;
uniform vec3 lightSpecular;
uniform vec3 groundColor;
uniform float intensity;
uniform vec3 diffuseColor;
uniform vec3 specularColor;
uniform vec3 emissiveColor;
uniform float specularPower;
out vec4 FragColor;
void main() {
	vec3 n = normalize(vNormalW);
	vec3 viewDir = normalize(eye - vPositionW);
	float ndl = dot(n, lightDir) * 0.5 + 0.5;
	vec3 diffuseBase = mix(groundColor, lightDiffuse, ndl) * intensity;
	vec3 h = normalize(viewDir + lightDir);
	float spec = pow(max(dot(n, h), 0.0), max(1.0, specularPower));
	vec3 specularBase = spec * lightSpecular * intensity;
	vec3 color = clamp(emissiveColor + diffuseBase * diffuseColor, 0.0, 1.0) + specularBase * specularColor;
	FragColor = vec4(color, 1.0);
}
`

// Knot draws the scene's torus knot mesh
type Knot struct {
	shader *graphics.Shader
	vao    uint32
	vbo    uint32
	ebo    uint32
	count  int32

	uploaded *scene.Geometry
}

func New() *Knot {
	return &Knot{}
}

func (k *Knot) Init() error {
	var err error
	k.shader, err = graphics.NewShader(vertexShader, fragmentShader)
	if err != nil {
		return err
	}
	gl.GenVertexArrays(1, &k.vao)
	gl.GenBuffers(1, &k.vbo)
	gl.GenBuffers(1, &k.ebo)
	return nil
}

// upload interleaves position and normal and sends the mesh to the GPU.
func (k *Knot) upload(g *scene.Geometry) {
	n := g.VertexCount()
	interleaved := make([]float32, 0, n*6)
	for i := 0; i < n; i++ {
		interleaved = append(interleaved, g.Positions[i*3:i*3+3]...)
		interleaved = append(interleaved, g.Normals[i*3:i*3+3]...)
	}

	gl.BindVertexArray(k.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, k.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, gl.Ptr(interleaved), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, k.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.BindVertexArray(0)

	k.count = int32(len(g.Indices))
	k.uploaded = g
}

func (k *Knot) Render(f *renderer.Frame) {
	mesh := f.Scene.Knot
	if mesh == nil || mesh.Geometry == nil || mesh.Material == nil {
		return
	}
	if mesh.Geometry != k.uploaded {
		k.upload(mesh.Geometry)
	}

	light := f.Scene.Light
	mat := mesh.Material

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	// The index winding follows the generator's handedness; draw both faces.
	gl.Disable(gl.CULL_FACE)

	k.shader.Use()
	k.shader.SetMatrix4("model", &f.Model)
	k.shader.SetMatrix4("view", &f.View)
	k.shader.SetMatrix4("proj", &f.Proj)
	k.shader.SetVector3("eye", f.CameraPosition)
	k.shader.SetVector3("lightDir", light.Direction)
	k.shader.SetVector3("lightDiffuse", light.Diffuse.Vec3())
	k.shader.SetVector3("lightSpecular", light.Specular.Vec3())
	k.shader.SetVector3("groundColor", light.GroundColor.Vec3())
	k.shader.SetFloat("intensity", light.Intensity)
	k.shader.SetVector3("diffuseColor", mat.Diffuse.Vec3())
	k.shader.SetVector3("specularColor", mat.Specular.Vec3())
	k.shader.SetVector3("emissiveColor", mat.Emissive.Vec3())
	k.shader.SetFloat("specularPower", mat.SpecularPower)

	gl.BindVertexArray(k.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, k.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	gl.Enable(gl.CULL_FACE)
}

func (k *Knot) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (k *Knot) Dispose() {
	if k.vao != 0 {
		gl.DeleteVertexArrays(1, &k.vao)
		k.vao = 0
	}
	if k.vbo != 0 {
		gl.DeleteBuffers(1, &k.vbo)
		k.vbo = 0
	}
	if k.ebo != 0 {
		gl.DeleteBuffers(1, &k.ebo)
		k.ebo = 0
	}
	if k.shader != nil {
		k.shader.Delete()
	}
	k.uploaded = nil
}

// compile-time check
var _ renderer.Renderable = (*Knot)(nil)
