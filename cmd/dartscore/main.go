// Package main is the dartscore command itself.
package main

import (
	"os"

	"github.com/dartcam/dartscore/cli"
	"github.com/dartcam/dartscore/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}
