package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dartcam/dartscore/scoring"
)

// scoreTable prints one row per hit and the total.
func scoreTable(summary scoring.Summary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Hit", "Score"})
	if summary.Empty {
		t.AppendRow(table.Row{"", scoring.NoDetectionsText, ""})
	}
	for i, row := range summary.Rows {
		t.AppendRow(table.Row{fmt.Sprintf("%d", i+1), row.Label, row.Score})
	}
	t.AppendFooter(table.Row{"", "Total", summary.Total})
	return t.Render()
}
