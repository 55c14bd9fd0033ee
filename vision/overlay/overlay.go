// Package overlay draws detection boxes and score labels on top of a captured frame.
package overlay

import (
	"fmt"
	"image"
	"math"

	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/scoring"
)

const (
	boxLineWidth = 3
	chipHeight   = 20
	chipGap      = 2
	chipPadding  = 5
	// FontSize is the label font size in pixels.
	FontSize = 13
	// baseline of the label text, measured up from the top of the box.
	textRise = 6
)

var (
	doubleColor    = rimage.NewColorFromHexOrPanic("#e74c3c")
	tripleColor    = rimage.NewColorFromHexOrPanic("#3498db")
	singleColor    = rimage.NewColorFromHexOrPanic("#2ecc71")
	innerBullColor = rimage.NewColorFromHexOrPanic("#f1c40f")
	outerBullColor = rimage.NewColorFromHexOrPanic("#f39c12")
	unknownColor   = rimage.White

	// UniformColor is used for every hit when the scheme cannot tell rings apart.
	UniformColor = rimage.NewColorFromHexOrPanic("#FFD700")
)

// HitColor returns the box and chip color for a hit under the given scheme.
func HitColor(h scoring.Hit, scheme scoring.Scheme) rimage.Color {
	if !scheme.ResolvesRings() {
		return UniformColor
	}
	switch h.Ring {
	case scoring.Double:
		return doubleColor
	case scoring.Triple:
		return tripleColor
	case scoring.Single:
		return singleColor
	case scoring.InnerBull:
		return innerBullColor
	case scoring.OuterBull:
		return outerBullColor
	default:
		return unknownColor
	}
}

// LabelText returns the chip text of a hit, e.g. "Triple 20 87%".
func LabelText(h scoring.Hit) string {
	return fmt.Sprintf("%s %d%%", h.Label, int(math.Round(rimage.ClampFinite(h.Confidence)*100)))
}

// Render draws the frame at the origin and, for each hit, a box outline and a label chip above
// the box. Hit boxes must already be in frame pixels.
func Render(frame image.Image, hits []scoring.Hit, scheme scoring.Scheme) *rimage.Drawing {
	var w, h int
	if frame != nil {
		w, h = frame.Bounds().Dx(), frame.Bounds().Dy()
	}
	drawing := rimage.NewDrawing(w, h)
	if frame != nil {
		drawing.Add(rimage.ImageCmd{Image: frame})
	}

	for _, hit := range hits {
		c := HitColor(hit, scheme)
		left := rimage.ClampFinite(hit.Box.MinX())
		top := rimage.ClampFinite(hit.Box.MinY())
		label := LabelText(hit)

		drawing.Add(
			rimage.RectCmd{
				X: left, Y: top,
				W:         rimage.ClampNonNegative(hit.Box.Width),
				H:         rimage.ClampNonNegative(hit.Box.Height),
				LineWidth: boxLineWidth,
				Color:     c,
			},
			rimage.RectCmd{
				X: left, Y: top - chipHeight - chipGap,
				W:     rimage.MeasureString(label, FontSize) + 2*chipPadding,
				H:     chipHeight,
				Fill:  true,
				Color: c,
			},
			rimage.TextCmd{
				Text:  label,
				X:     left + chipPadding,
				Y:     top - textRise,
				Size:  FontSize,
				Color: rimage.Black,
			},
		)
	}
	return drawing
}

// Image renders and rasterizes the overlay.
func Image(frame image.Image, hits []scoring.Hit, scheme scoring.Scheme) *image.RGBA {
	return Render(frame, hits, scheme).Rasterize()
}
