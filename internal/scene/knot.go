package scene

import (
	"fmt"
	"math"

	"knotscene/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is indexed triangle data. Positions and Normals hold xyz triples, UVs hold uv pairs.
type Geometry struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TorusKnotN returns vertex and index counts for the given segment counts.
// The ring of tube vertices is repeated at the seam so UVs stay continuous along the knot.
func TorusKnotN(radialSegs, tubularSegs int) (numVertex, numIndex int) {
	numVertex = (radialSegs + 1) * tubularSegs
	numIndex = radialSegs * tubularSegs * 6
	return
}

// NewTorusKnot builds a (p,q) torus knot: a tube of radius cfg.Tube swept along
// a curve winding p times around the axis of rotational symmetry and q times
// around the interior circle of a torus of radius cfg.Radius.
func NewTorusKnot(cfg config.Knot) (*Geometry, error) {
	switch {
	case cfg.Radius <= 0 || cfg.Tube <= 0:
		return nil, fmt.Errorf("%w: radius %v and tube %v must be positive", ErrInvalidGeometry, cfg.Radius, cfg.Tube)
	case cfg.RadialSegments < 3 || cfg.TubularSegments < 3:
		return nil, fmt.Errorf("%w: need at least 3 radial and tubular segments, got %d and %d", ErrInvalidGeometry, cfg.RadialSegments, cfg.TubularSegments)
	case cfg.P == 0:
		return nil, fmt.Errorf("%w: p must be non-zero", ErrInvalidGeometry)
	}

	radial, tubular := cfg.RadialSegments, cfg.TubularSegments
	nv, ni := TorusKnotN(radial, tubular)
	g := &Geometry{
		Positions: make([]float32, 0, nv*3),
		Normals:   make([]float32, 0, nv*3),
		UVs:       make([]float32, 0, nv*2),
		Indices:   make([]uint32, 0, ni),
	}

	radius := float64(cfg.Radius)
	tube := float64(cfg.Tube)
	p, q := float64(cfg.P), float64(cfg.Q)

	curve := func(angle float64) mgl32.Vec3 {
		cu, su := math.Cos(angle), math.Sin(angle)
		quOverP := q / p * angle
		cs := math.Cos(quOverP)
		return mgl32.Vec3{
			float32(radius * (2 + cs) * 0.5 * cu),
			float32(radius * (2 + cs) * su * 0.5),
			float32(radius * math.Sin(quOverP) * 0.5),
		}
	}

	for i := 0; i <= radial; i++ {
		u := float64(i%radial) / float64(radial) * 2 * p * math.Pi
		p1 := curve(u)
		p2 := curve(u + 0.01)

		// Frenet-like frame around the curve point
		tang := p2.Sub(p1)
		n := p2.Add(p1)
		bitan := tang.Cross(n)
		n = bitan.Cross(tang)
		bitan = bitan.Normalize()
		n = n.Normalize()

		for j := 0; j < tubular; j++ {
			v := float64(j) / float64(tubular) * 2 * math.Pi
			cx := float32(-tube * math.Cos(v))
			cy := float32(tube * math.Sin(v))

			offset := n.Mul(cx).Add(bitan.Mul(cy))
			pos := p1.Add(offset)
			normal := offset.Normalize()

			g.Positions = append(g.Positions, pos[0], pos[1], pos[2])
			g.Normals = append(g.Normals, normal[0], normal[1], normal[2])
			g.UVs = append(g.UVs, float32(i)/float32(radial), float32(j)/float32(tubular))
		}
	}

	for i := 0; i < radial; i++ {
		for j := 0; j < tubular; j++ {
			jNext := (j + 1) % tubular
			a := uint32(i*tubular + j)
			b := uint32((i+1)*tubular + j)
			c := uint32((i+1)*tubular + jNext)
			d := uint32(i*tubular + jNext)
			g.Indices = append(g.Indices, d, b, a, d, c, b)
		}
	}

	return g, nil
}
