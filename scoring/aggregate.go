package scoring

import "github.com/samber/lo"

// NoDetectionsText is the placeholder shown instead of a total when nothing was detected.
const NoDetectionsText = "No darts detected"

// Row is one line of the score list.
type Row struct {
	Label string
	Score int
}

// Summary is the score list for one frame. When Empty is true there are no rows and callers
// render NoDetectionsText rather than a zero total.
type Summary struct {
	Rows  []Row
	Total int
	Empty bool
}

// Aggregate reduces hits to rows, in detection order, and their total.
func Aggregate(hits []Hit) Summary {
	if len(hits) == 0 {
		return Summary{Empty: true}
	}
	return Summary{
		Rows: lo.Map(hits, func(h Hit, _ int) Row {
			return Row{Label: h.Label, Score: h.Score}
		}),
		Total: lo.SumBy(hits, func(h Hit) int { return h.Score }),
	}
}
