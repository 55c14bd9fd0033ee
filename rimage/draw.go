package rimage

import (
	"image"
	"image/color"
	"math"
)

// Size is the pixel size of a drawing surface.
type Size struct {
	Width, Height int
}

// Surface is a generic 2D drawing capability. Every renderer in dartscore emits a Drawing
// made of Commands, and any Surface can host it.
type Surface interface {
	Size() Size
	DrawImage(img image.Image, x, y int)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, lineWidth float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	// FillAnnularSector fills the region between radii rInner and rOuter swept clockwise
	// (in screen coordinates) from angle a1 to a2, in radians.
	FillAnnularSector(cx, cy, rInner, rOuter, a1, a2 float64, c color.Color)
	StrokeLine(x1, y1, x2, y2, lineWidth float64, c color.Color)
	// DrawText draws s anchored at (x, y). ax and ay are in [0, 1]: ax 0 starts the text at x,
	// ay 0 puts the baseline on y and ay 1 the top of the text. (0.5, 0.5) centers it.
	DrawText(s string, x, y, size, ax, ay float64, c color.Color)
}

// Command is one vector drawing instruction.
type Command interface {
	Apply(s Surface)
}

// Drawing is a sized sequence of drawing commands.
type Drawing struct {
	Size     Size
	Commands []Command
}

// NewDrawing returns an empty drawing of the given size. Negative dimensions are clamped to zero.
func NewDrawing(width, height int) *Drawing {
	return &Drawing{Size: Size{Width: max(width, 0), Height: max(height, 0)}}
}

// Add appends commands to the drawing.
func (d *Drawing) Add(cmds ...Command) {
	d.Commands = append(d.Commands, cmds...)
}

// Paint applies every command, in order, to the surface.
func (d *Drawing) Paint(s Surface) {
	for _, cmd := range d.Commands {
		cmd.Apply(s)
	}
}

// Rasterize paints the drawing onto a fresh transparent raster of the drawing's size.
func (d *Drawing) Rasterize() *image.RGBA {
	surface := NewGGSurface(d.Size.Width, d.Size.Height)
	d.Paint(surface)
	return surface.Image()
}

// ImageCmd draws an image with its top-left corner at (X, Y).
type ImageCmd struct {
	Image image.Image
	X, Y  int
}

// Apply implements Command.
func (c ImageCmd) Apply(s Surface) {
	s.DrawImage(c.Image, c.X, c.Y)
}

// RectCmd fills or outlines an axis-aligned rectangle.
type RectCmd struct {
	X, Y, W, H float64
	// LineWidth is only used for outlines.
	LineWidth float64
	Fill      bool
	Color     color.Color
}

// Apply implements Command.
func (c RectCmd) Apply(s Surface) {
	if c.Fill {
		s.FillRect(c.X, c.Y, c.W, c.H, c.Color)
		return
	}
	s.StrokeRect(c.X, c.Y, c.W, c.H, c.LineWidth, c.Color)
}

// CircleCmd fills a disc.
type CircleCmd struct {
	CX, CY, R float64
	Color     color.Color
}

// Apply implements Command.
func (c CircleCmd) Apply(s Surface) {
	s.FillCircle(c.CX, c.CY, c.R, c.Color)
}

// SectorCmd fills an annular sector.
type SectorCmd struct {
	CX, CY         float64
	RInner, ROuter float64
	A1, A2         float64
	Color          color.Color
}

// Apply implements Command.
func (c SectorCmd) Apply(s Surface) {
	s.FillAnnularSector(c.CX, c.CY, c.RInner, c.ROuter, c.A1, c.A2, c.Color)
}

// LineCmd strokes a straight line.
type LineCmd struct {
	X1, Y1, X2, Y2 float64
	LineWidth      float64
	Color          color.Color
}

// Apply implements Command.
func (c LineCmd) Apply(s Surface) {
	s.StrokeLine(c.X1, c.Y1, c.X2, c.Y2, c.LineWidth, c.Color)
}

// TextCmd draws a string.
type TextCmd struct {
	Text   string
	X, Y   float64
	Size   float64
	AX, AY float64
	Color  color.Color
}

// Apply implements Command.
func (c TextCmd) Apply(s Surface) {
	s.DrawText(c.Text, c.X, c.Y, c.Size, c.AX, c.AY, c.Color)
}

// ClampNonNegative replaces NaN, infinite and negative values with zero.
func ClampNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ClampFinite replaces NaN and infinite values with zero.
func ClampFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
