// Package fontatlas bakes a glyph set into a single-channel atlas image and
// lays out text as textured quads.
package fontatlas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes a single character's placement and metrics within the atlas
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas (top-left origin)
	AtlasX float32
	AtlasY float32
	// Glyph bitmap size in pixels
	Width  float32
	Height float32
	// Bearing (offset from baseline) in pixels
	BearingX float32
	BearingY float32
	// Advance in pixels
	Advance int
}

// Atlas is a baked glyph set
type Atlas struct {
	Image  *image.Alpha
	Glyphs map[rune]Glyph
	// LineHeight is the recommended baseline-to-baseline distance in pixels
	LineHeight int
}

const (
	atlasWidth = 512
	padding    = 1
	firstRune  = 32
	lastRune   = 126
)

// BakeMono bakes the printable ASCII range of the Go Mono face.
func BakeMono(pixels int) (*Atlas, error) {
	return Bake(gomono.TTF, pixels)
}

// Bake parses a TrueType or OpenType font and bakes the printable ASCII
// range at the given pixel size.
func Bake(fontBytes []byte, pixels int) (*Atlas, error) {
	if pixels <= 0 {
		return nil, errors.New("font size must be positive")
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	// First pass: pack rows to find the atlas height
	offsetX, offsetY, rowHeight := 0, 0, 0
	for r := rune(firstRune); r <= lastRune; r++ {
		dr, _, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || dr.Empty() {
			continue
		}
		if offsetX+dr.Dx() > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		offsetX += dr.Dx() + padding
		rowHeight = max(rowHeight, dr.Dy())
	}
	atlasHeight := nextPow2(offsetY + rowHeight + padding)

	atlas := &Atlas{
		Image:      image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasHeight)),
		Glyphs:     make(map[rune]Glyph),
		LineHeight: face.Metrics().Height.Ceil(),
	}

	// Second pass: render each glyph into the atlas and record metrics
	offsetX, offsetY, rowHeight = 0, 0, 0
	for r := rune(firstRune); r <= lastRune; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		g := Glyph{
			AtlasX:   float32(offsetX),
			AtlasY:   float32(offsetY),
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  int(math.Round(float64(advance) / 64.0)),
		}
		if dr.Empty() || mask == nil {
			// Space or non-drawable glyph; still record advance
			atlas.Glyphs[r] = g
			continue
		}

		if offsetX+dr.Dx() > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		dst := image.Rect(offsetX, offsetY, offsetX+dr.Dx(), offsetY+dr.Dy())
		draw.Draw(atlas.Image, dst, mask, maskp, draw.Src)

		g.AtlasX, g.AtlasY = float32(offsetX), float32(offsetY)
		g.Width, g.Height = float32(dr.Dx()), float32(dr.Dy())
		atlas.Glyphs[r] = g

		offsetX += dr.Dx() + padding
		rowHeight = max(rowHeight, dr.Dy())
	}
	return atlas, nil
}

// Measure returns the width and tallest glyph height of text at scale.
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			width += float32(a.Glyphs[' '].Advance) * scale
			continue
		}
		width += float32(g.Advance) * scale
		maxH = max(maxH, g.Height*scale)
	}
	return width, maxH
}

// Layout appends two triangles per visible glyph to dst, with the baseline
// starting at (x, y). Each vertex is x, y, u, v.
func (a *Atlas) Layout(dst []float32, text string, x, y, scale float32) []float32 {
	w := float32(a.Image.Rect.Dx())
	h := float32(a.Image.Rect.Dy())
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			// Skip missing glyphs
			x += float32(a.Glyphs[' '].Advance) * scale
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			x0 := x + g.BearingX*scale
			y0 := y - g.BearingY*scale
			x1 := x0 + g.Width*scale
			y1 := y0 + g.Height*scale
			u0, v0 := g.AtlasX/w, g.AtlasY/h
			u1, v1 := (g.AtlasX+g.Width)/w, (g.AtlasY+g.Height)/h
			dst = append(dst,
				x0, y1, u0, v1,
				x0, y0, u0, v0,
				x1, y0, u1, v0,
				x0, y1, u0, v1,
				x1, y0, u1, v0,
				x1, y1, u1, v1,
			)
		}
		x += float32(g.Advance) * scale
	}
	return dst
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
