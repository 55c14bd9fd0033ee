package dartboard

import (
	"math"
	"strconv"

	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/scoring"
)

const (
	// DefaultMargin is the gap between the double ring and the edge of the drawing.
	DefaultMargin = 18
	// backgroundPad is how far the dark background disc extends past the double ring.
	backgroundPad = 16
	labelOffset   = 0.08
	labelScale    = 0.088
	minLabelSize  = 9
	wireWidth     = 0.9
)

var (
	backgroundColor = rimage.NewColorFromHexOrPanic("#0a0a0a")
	baseEven        = rimage.NewColorFromHexOrPanic("#1c1c1c")
	baseOdd         = rimage.NewColorFromHexOrPanic("#f0e8d0")
	ringEven        = rimage.NewColorFromHexOrPanic("#c0392b")
	ringOdd         = rimage.NewColorFromHexOrPanic("#27ae60")
	outerBullColor  = rimage.NewColorFromHexOrPanic("#27ae60")
	innerBullColor  = rimage.NewColorFromHexOrPanic("#c0392b")
	labelColor      = rimage.NewColorFromHexOrPanic("#e8e8e8")
	wireColor       = rimage.NewColor(110, 110, 110).WithAlpha(0.55)

	// HighlightColor fills every cell touched by a hit.
	HighlightColor = rimage.NewColorFromHexOrPanic("#FFD700")
)

// Cell is one drawable region of the board. Index is the wedge index for wedge cells and -1 for
// the bulls.
type Cell struct {
	Index  int
	Number int
	Ring   CellRing
}

// Board is a rendered dartboard.
type Board struct {
	Drawing *rimage.Drawing
	// Highlighted lists lit cells in drawing order.
	Highlighted []Cell
	CenterX     float64
	CenterY     float64
	Radius      float64
}

// Options tune the board layout.
type Options struct {
	Margin float64
}

// Render draws the board at the given size with the default margin.
func Render(size rimage.Size, hits []scoring.Hit) *Board {
	return RenderWithOptions(size, hits, Options{Margin: DefaultMargin})
}

// RenderWithOptions draws the board, lighting every cell that one of the hits falls in.
func RenderWithOptions(size rimage.Size, hits []scoring.Hit, opts Options) *Board {
	drawing := rimage.NewDrawing(size.Width, size.Height)
	cx := float64(drawing.Size.Width) / 2
	cy := float64(drawing.Size.Height) / 2
	r := rimage.ClampNonNegative(math.Min(cx, cy) - rimage.ClampNonNegative(opts.Margin))

	board := &Board{Drawing: drawing, CenterX: cx, CenterY: cy, Radius: r}
	lit := litCells(hits)

	drawing.Add(rimage.CircleCmd{CX: cx, CY: cy, R: r + backgroundPad, Color: backgroundColor})

	for i, number := range boardNumbers {
		a1, a2 := SegmentAngles(i)
		for _, ring := range wedgeCells {
			cell := Cell{Index: i, Number: number, Ring: ring}
			c := wedgeColor(i, ring)
			if lit[cell] {
				c = HighlightColor
				board.Highlighted = append(board.Highlighted, cell)
			}
			inner, outer := ring.Bounds()
			drawing.Add(rimage.SectorCmd{
				CX: cx, CY: cy,
				RInner: inner * r, ROuter: outer * r,
				A1: a1, A2: a2,
				Color: c,
			})
		}

		drawing.Add(rimage.LineCmd{
			X1:        cx + math.Cos(a1)*ratios.OuterBull*r,
			Y1:        cy + math.Sin(a1)*ratios.OuterBull*r,
			X2:        cx + math.Cos(a1)*ratios.DoubleOuter*r,
			Y2:        cy + math.Sin(a1)*ratios.DoubleOuter*r,
			LineWidth: wireWidth,
			Color:     wireColor,
		})
	}

	labelRadius := (ratios.DoubleOuter + labelOffset) * r
	labelSize := math.Max(minLabelSize, math.Floor(r*labelScale))
	for i, number := range boardNumbers {
		a1, a2 := SegmentAngles(i)
		mid := (a1 + a2) / 2
		drawing.Add(rimage.TextCmd{
			Text:  strconv.Itoa(number),
			X:     cx + math.Cos(mid)*labelRadius,
			Y:     cy + math.Sin(mid)*labelRadius,
			Size:  labelSize,
			AX:    0.5,
			AY:    0.5,
			Color: labelColor,
		})
	}

	for _, bull := range []struct {
		ring  CellRing
		color rimage.Color
	}{
		{CellOuterBull, outerBullColor},
		{CellInnerBull, innerBullColor},
	} {
		cell := Cell{Index: -1, Ring: bull.ring}
		c := bull.color
		if lit[cell] {
			c = HighlightColor
			board.Highlighted = append(board.Highlighted, cell)
		}
		_, outer := bull.ring.Bounds()
		drawing.Add(rimage.CircleCmd{CX: cx, CY: cy, R: outer * r, Color: c})
	}

	return board
}

// Idle returns the board with nothing highlighted.
func Idle(size rimage.Size) *Board {
	return Render(size, nil)
}

func wedgeColor(i int, ring CellRing) rimage.Color {
	even := i%2 == 0
	switch ring {
	case CellTriple, CellDouble:
		if even {
			return ringEven
		}
		return ringOdd
	default:
		if even {
			return baseEven
		}
		return baseOdd
	}
}

func litCells(hits []scoring.Hit) map[Cell]bool {
	lit := map[Cell]bool{}
	light := func(i int, rings ...CellRing) {
		for _, ring := range rings {
			lit[Cell{Index: i, Number: boardNumbers[i], Ring: ring}] = true
		}
	}
	for _, h := range hits {
		switch h.Ring {
		case scoring.OuterBull:
			lit[Cell{Index: -1, Ring: CellOuterBull}] = true
			continue
		case scoring.InnerBull:
			lit[Cell{Index: -1, Ring: CellInnerBull}] = true
			continue
		}
		if h.Ring == scoring.Unknown && h.Bull {
			lit[Cell{Index: -1, Ring: CellOuterBull}] = true
			lit[Cell{Index: -1, Ring: CellInnerBull}] = true
			continue
		}
		if !h.HasSegment() {
			continue
		}
		i := SegmentIndex(h.Segment)
		if i < 0 {
			continue
		}
		switch h.Ring {
		case scoring.Single:
			light(i, CellSingleInner, CellSingleOuter)
		case scoring.Triple:
			light(i, CellTriple)
		case scoring.Double:
			light(i, CellDouble)
		case scoring.Unknown:
			light(i, wedgeCells[:]...)
		}
	}
	return lit
}
