// Package cli contains all business logic needed by the dartscore command.
package cli

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagDebug   = "debug"
	generalFlagEnvFile = "env-file"
	generalFlagLogFile = "log-file"

	detectFlagConfig = "config"
	detectFlagImage  = "image"
	detectFlagOut    = "out"

	boardFlagHit    = "hit"
	boardFlagScheme = "scheme"
	boardFlagSize   = "size"
	boardFlagOut    = "out"

	defaultBoardSize = 400
)

var app = &cli.App{
	Name:            "dartscore",
	Usage:           "detect darts in a frame and score them",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.PathFlag{
			Name:  generalFlagEnvFile,
			Value: ".env",
			Usage: "load environment variables from `FILE` if it exists",
		},
		&cli.PathFlag{
			Name:  generalFlagLogFile,
			Usage: "also write logs to `FILE`, rotated by size",
		},
	},
	Before: loadEnvFile,
	Commands: []*cli.Command{
		{
			Name:      "detect",
			Usage:     "run one detection cycle on an image file",
			UsageText: "dartscore detect --config <file> --image <file> [--out <dir>]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     detectFlagConfig,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "load configuration from `FILE`",
				},
				&cli.PathFlag{
					Name:     detectFlagImage,
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "frame to analyze",
				},
				&cli.PathFlag{
					Name:  detectFlagOut,
					Value: ".",
					Usage: "directory to write overlay.png and board.png to",
				},
			},
			Action: DetectAction,
		},
		{
			Name:      "board",
			Usage:     "render the dartboard with the given hits highlighted",
			UsageText: "dartscore board [--hit <class>]... [--scheme prefixed|plain_number] [--size <px>] [--out <file>]",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  boardFlagHit,
					Usage: "class label of a hit, e.g. t20 or db; repeatable",
				},
				&cli.StringFlag{
					Name:  boardFlagScheme,
					Value: "prefixed",
					Usage: "label scheme of the hits",
				},
				&cli.IntFlag{
					Name:  boardFlagSize,
					Value: defaultBoardSize,
					Usage: "board width and height in pixels",
				},
				&cli.PathFlag{
					Name:  boardFlagOut,
					Value: "board.png",
					Usage: "output image",
				},
			},
			Action: BoardAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}

func loadEnvFile(c *cli.Context) error {
	path := c.Path(generalFlagEnvFile)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "cannot load %s", path)
	}
	return nil
}
