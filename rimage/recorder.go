package rimage

import (
	"image"
	"image/color"
)

// Op is one recorded Surface call.
type Op struct {
	Kind  string
	Args  []float64
	Text  string
	Color color.Color
}

// Recorder is a Surface that remembers every call instead of drawing it.
type Recorder struct {
	size Size
	Ops  []Op
}

// NewRecorder returns an empty recorder reporting the given size.
func NewRecorder(size Size) *Recorder {
	return &Recorder{size: size}
}

// Filter returns the recorded ops of one kind, in order.
func (r *Recorder) Filter(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) record(kind string, c color.Color, text string, args ...float64) {
	r.Ops = append(r.Ops, Op{Kind: kind, Args: args, Text: text, Color: c})
}

// Size implements Surface.
func (r *Recorder) Size() Size {
	return r.size
}

// DrawImage implements Surface.
func (r *Recorder) DrawImage(img image.Image, x, y int) {
	var w, h int
	if img != nil {
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}
	r.record("image", nil, "", float64(x), float64(y), float64(w), float64(h))
}

// FillRect implements Surface.
func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.record("fill_rect", c, "", x, y, w, h)
}

// StrokeRect implements Surface.
func (r *Recorder) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	r.record("stroke_rect", c, "", x, y, w, h, lineWidth)
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(cx, cy, radius float64, c color.Color) {
	r.record("circle", c, "", cx, cy, radius)
}

// FillAnnularSector implements Surface.
func (r *Recorder) FillAnnularSector(cx, cy, rInner, rOuter, a1, a2 float64, c color.Color) {
	r.record("sector", c, "", cx, cy, rInner, rOuter, a1, a2)
}

// StrokeLine implements Surface.
func (r *Recorder) StrokeLine(x1, y1, x2, y2, lineWidth float64, c color.Color) {
	r.record("line", c, "", x1, y1, x2, y2, lineWidth)
}

// DrawText implements Surface.
func (r *Recorder) DrawText(text string, x, y, size, ax, ay float64, c color.Color) {
	r.record("text", c, text, x, y, size, ax, ay)
}
