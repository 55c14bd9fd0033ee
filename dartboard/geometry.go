// Package dartboard holds the fixed geometry of a standard dartboard and renders a schematic
// board with scored hits highlighted.
package dartboard

import "math"

// NumSegments is the number of numbered wedges on the board.
const NumSegments = 20

// Radii are ring boundaries as ratios of the outer edge of the double ring.
type Radii struct {
	InnerBull   float64
	OuterBull   float64
	TripleInner float64
	TripleOuter float64
	DoubleInner float64
	DoubleOuter float64
}

var ratios = Radii{
	InnerBull:   0.037,
	OuterBull:   0.094,
	TripleInner: 0.582,
	TripleOuter: 0.629,
	DoubleInner: 0.953,
	DoubleOuter: 1.0,
}

// segment numbers clockwise from the top.
var boardNumbers = [NumSegments]int{20, 1, 18, 4, 13, 6, 10, 15, 2, 17, 3, 19, 7, 16, 8, 11, 14, 9, 12, 5}

// Ratios returns the ring radii table.
func Ratios() Radii {
	return ratios
}

// BoardNumbers returns the segment numbers clockwise from the top. The result is a copy.
func BoardNumbers() [NumSegments]int {
	return boardNumbers
}

// SegmentIndex returns the wedge index of a segment number, or -1 if n is not on the board.
func SegmentIndex(n int) int {
	for i, num := range boardNumbers {
		if num == n {
			return i
		}
	}
	return -1
}

// SegmentSpan is the angle covered by one wedge.
const SegmentSpan = 2 * math.Pi / NumSegments

// angleOffset rotates wedge 0 so that it is centered on the top of the board.
const angleOffset = -math.Pi/2 - SegmentSpan/2

// SegmentAngles returns the start and end angle of wedge i in screen coordinates, where angles
// grow clockwise from the positive x axis.
func SegmentAngles(i int) (float64, float64) {
	a1 := angleOffset + float64(i)*SegmentSpan
	return a1, a1 + SegmentSpan
}

// CellRing identifies a drawable region of the board.
type CellRing int

// Board regions. The four wedge cells run from the center outwards.
const (
	CellSingleInner CellRing = iota
	CellTriple
	CellSingleOuter
	CellDouble
	CellOuterBull
	CellInnerBull
)

var wedgeCells = [...]CellRing{CellSingleInner, CellTriple, CellSingleOuter, CellDouble}

func (c CellRing) String() string {
	switch c {
	case CellSingleInner:
		return "single-inner"
	case CellTriple:
		return "triple"
	case CellSingleOuter:
		return "single-outer"
	case CellDouble:
		return "double"
	case CellOuterBull:
		return "outer-bull"
	case CellInnerBull:
		return "inner-bull"
	default:
		return "unknown"
	}
}

// Bounds returns the inner and outer radius ratios of the region.
func (c CellRing) Bounds() (float64, float64) {
	switch c {
	case CellSingleInner:
		return ratios.OuterBull, ratios.TripleInner
	case CellTriple:
		return ratios.TripleInner, ratios.TripleOuter
	case CellSingleOuter:
		return ratios.TripleOuter, ratios.DoubleInner
	case CellDouble:
		return ratios.DoubleInner, ratios.DoubleOuter
	case CellOuterBull:
		return ratios.InnerBull, ratios.OuterBull
	case CellInnerBull:
		return 0, ratios.InnerBull
	default:
		return 0, 0
	}
}
