package rimage

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Color is a non-premultiplied 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

func (c Color) String() string {
	if c.A == 0xff {
		return c.Hex()
	}
	return fmt.Sprintf("%s@%.2f", c.Hex(), float64(c.A)/0xff)
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

// RGBA implements color.Color. The returned values are alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	r = uint32(c.R)
	r |= r << 8
	r *= a
	r /= 0xff
	g = uint32(c.G)
	g |= g << 8
	g *= a
	g /= 0xff
	b = uint32(c.B)
	b |= b << 8
	b *= a
	b /= 0xff
	a |= a << 8
	return
}

// WithAlpha returns the same color with an opacity in [0, 1].
func (c Color) WithAlpha(alpha float64) Color {
	alpha = math.Max(0, math.Min(1, alpha))
	c.A = uint8(math.Round(alpha * 0xff))
	return c
}

// NewColor returns an opaque color.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// NewColorFromHex parses "#rrggbb" or "#rgb".
func NewColorFromHex(hex string) (Color, error) {
	cc, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, errors.Wrapf(err, "couldn't parse hex %q", hex)
	}
	r, g, b := cc.RGB255()
	return NewColor(r, g, b), nil
}

// NewColorFromHexOrPanic is NewColorFromHex for package-level palettes.
func NewColorFromHexOrPanic(hex string) Color {
	c, err := NewColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	// Black is opaque black.
	Black = NewColor(0, 0, 0)
	// White is opaque white.
	White = NewColor(255, 255, 255)
)
