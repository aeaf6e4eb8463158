package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Color3 is an RGB color with components in [0,1].
type Color3 struct {
	R, G, B float32
}

// Color4 is an RGBA color.
type Color4 struct {
	R, G, B, A float32
}

// Color3FromHex parses "#rrggbb".
func Color3FromHex(hex string) (Color3, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return Color3{}, fmt.Errorf("color %q: want #rrggbb", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color3{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return Color3{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}, nil
}

// Scale multiplies every component by s.
func (c Color3) Scale(s float32) Color3 {
	return Color3{c.R * s, c.G * s, c.B * s}
}

func (c Color3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

func Color4From(v [4]float32) Color4 {
	return Color4{v[0], v[1], v[2], v[3]}
}

func (c Color4) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Lerp interpolates from c toward o by t.
func (c Color4) Lerp(o Color4, t float32) Color4 {
	return Color4{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}
