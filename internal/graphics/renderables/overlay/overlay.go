package overlay

import (
	"fmt"
	"strings"

	"knotscene/internal/graphics"
	"knotscene/internal/graphics/fontatlas"
	"knotscene/internal/graphics/renderer"
	"knotscene/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	fontPixels = 16
	topN       = 8
	marginX    = 10
	startY     = 24
)

// Overlay draws the previous frame's profiling breakdown in the top-left corner
type Overlay struct {
	rec  *profiling.Recorder
	font *graphics.FontRenderer

	lines []string
}

func New(rec *profiling.Recorder) *Overlay {
	return &Overlay{rec: rec}
}

func (o *Overlay) Init() error {
	atlas, err := fontatlas.BakeMono(fontPixels)
	if err != nil {
		return fmt.Errorf("bake overlay font: %w", err)
	}
	o.font, err = graphics.NewFontRenderer(atlas)
	return err
}

func (o *Overlay) Render(f *renderer.Frame) {
	if o.rec == nil || !o.rec.Enabled() {
		return
	}
	o.lines = append(o.lines[:0],
		fmt.Sprintf("frame %d  %dx%d", f.Index, f.Width, f.Height),
		fmt.Sprintf("particles %d/%d", f.Scene.Particles.AliveCount(), f.Scene.Particles.Capacity()),
	)
	if top := o.rec.LastTopN(topN); top != "" {
		o.lines = append(o.lines, strings.Split(top, ", ")...)
	}
	step := o.font.LineHeight() + 2
	o.font.RenderLines(o.lines, marginX, startY, step, 1, mgl32.Vec3{1, 1, 1})
}

func (o *Overlay) SetViewport(width, height int) {
	if o.font != nil {
		o.font.SetViewport(width, height)
	}
}

func (o *Overlay) Dispose() {
	if o.font != nil {
		o.font.Dispose()
		o.font = nil
	}
}

var _ renderer.Renderable = (*Overlay)(nil)
