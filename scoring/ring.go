// Package scoring turns model class labels into scored dart hits and totals them.
package scoring

// RingType is the scoring band a hit falls in.
type RingType int

// Known ring types. Unknown covers both unparseable labels and labels from schemes that only
// resolve the segment number.
const (
	Unknown RingType = iota
	Single
	Double
	Triple
	OuterBull
	InnerBull
)

func (r RingType) String() string {
	switch r {
	case Single:
		return "Single"
	case Double:
		return "Double"
	case Triple:
		return "Triple"
	case OuterBull:
		return "Outer Bull"
	case InnerBull:
		return "Inner Bull"
	default:
		return "Unknown"
	}
}

// Multiplier returns the segment multiplier of a numbered ring, or 0 for other rings.
func (r RingType) Multiplier() int {
	switch r {
	case Single:
		return 1
	case Double:
		return 2
	case Triple:
		return 3
	default:
		return 0
	}
}

// Specific reports whether the ring names one band of a numbered segment.
func (r RingType) Specific() bool {
	return r.Multiplier() > 0
}

const (
	// OuterBullScore is the value of the outer bull (single bull).
	OuterBullScore = 25
	// InnerBullScore is the value of the inner bull (double bull).
	InnerBullScore = 50

	// MinSegment and MaxSegment bound dartboard segment numbers.
	MinSegment = 1
	MaxSegment = 20
)

// Score returns the points for a ring and segment per the score table.
func Score(r RingType, segment int) int {
	switch r {
	case OuterBull:
		return OuterBullScore
	case InnerBull:
		return InnerBullScore
	case Single, Double, Triple:
		if segment < MinSegment || segment > MaxSegment {
			return 0
		}
		return r.Multiplier() * segment
	default:
		return 0
	}
}
