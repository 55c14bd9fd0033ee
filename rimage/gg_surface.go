package rimage

import (
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

var (
	fontOnce sync.Once
	boldFont *truetype.Font
)

// Font returns the bold font used for every label.
func Font() *truetype.Font {
	fontOnce.Do(func() {
		var err error
		boldFont, err = truetype.Parse(gobold.TTF)
		if err != nil {
			panic(err)
		}
	})
	return boldFont
}

func newFace(size float64) font.Face {
	return truetype.NewFace(Font(), &truetype.Options{Size: size})
}

// MeasureString returns the advance width of s at the given font size.
func MeasureString(s string, size float64) float64 {
	return float64(font.MeasureString(newFace(size), s)) / 64
}

// GGSurface is a Surface rasterized with github.com/fogleman/gg.
type GGSurface struct {
	dc *gg.Context
}

// NewGGSurface returns a transparent raster surface.
func NewGGSurface(width, height int) *GGSurface {
	return &GGSurface{dc: gg.NewContext(max(width, 0), max(height, 0))}
}

// Image returns the rasterized result.
func (s *GGSurface) Image() *image.RGBA {
	img, ok := s.dc.Image().(*image.RGBA)
	if !ok {
		bounds := s.dc.Image().Bounds()
		img = image.NewRGBA(bounds)
		gg.NewContextForRGBA(img).DrawImage(s.dc.Image(), 0, 0)
	}
	return img
}

// Size implements Surface.
func (s *GGSurface) Size() Size {
	return Size{Width: s.dc.Width(), Height: s.dc.Height()}
}

// DrawImage implements Surface.
func (s *GGSurface) DrawImage(img image.Image, x, y int) {
	if img == nil {
		return
	}
	s.dc.DrawImage(img, x, y)
}

// FillRect implements Surface.
func (s *GGSurface) FillRect(x, y, w, h float64, c color.Color) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetColor(c)
	s.dc.Fill()
}

// StrokeRect implements Surface.
func (s *GGSurface) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetLineWidth(lineWidth)
	s.dc.SetColor(c)
	s.dc.Stroke()
}

// FillCircle implements Surface.
func (s *GGSurface) FillCircle(cx, cy, r float64, c color.Color) {
	s.dc.DrawCircle(cx, cy, r)
	s.dc.SetColor(c)
	s.dc.Fill()
}

// FillAnnularSector implements Surface.
func (s *GGSurface) FillAnnularSector(cx, cy, rInner, rOuter, a1, a2 float64, c color.Color) {
	s.dc.NewSubPath()
	s.dc.DrawArc(cx, cy, rOuter, a1, a2)
	// gg interpolates arcs linearly between the two angles, so the inner edge runs backwards.
	s.dc.DrawArc(cx, cy, rInner, a2, a1)
	s.dc.ClosePath()
	s.dc.SetColor(c)
	s.dc.Fill()
}

// StrokeLine implements Surface.
func (s *GGSurface) StrokeLine(x1, y1, x2, y2, lineWidth float64, c color.Color) {
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.SetLineWidth(lineWidth)
	s.dc.SetColor(c)
	s.dc.Stroke()
}

// DrawText implements Surface.
func (s *GGSurface) DrawText(text string, x, y, size, ax, ay float64, c color.Color) {
	s.dc.SetFontFace(newFace(size))
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(text, x, y, ax, ay)
}
