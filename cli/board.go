package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/dartcam/dartscore/dartboard"
	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/scoring"
)

// BoardAction renders the board for hits given as class labels.
func BoardAction(c *cli.Context) error {
	scheme, err := scoring.ParseScheme(c.String(boardFlagScheme))
	if err != nil {
		return err
	}
	size := c.Int(boardFlagSize)
	if size <= 0 {
		return errors.Errorf("--%s must be positive", boardFlagSize)
	}

	var hits []scoring.Hit
	for _, label := range c.StringSlice(boardFlagHit) {
		hits = append(hits, scoring.Normalize(label, scheme))
	}
	board := dartboard.Render(rimage.Size{Width: size, Height: size}, hits)

	out := c.Path(boardFlagOut)
	if err := rimage.WriteImageToFile(out, board.Drawing.Rasterize()); err != nil {
		return err
	}
	if len(hits) > 0 {
		fmt.Fprintln(c.App.Writer, scoreTable(scoring.Aggregate(hits)))
	}
	return nil
}
