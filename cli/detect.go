package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/dartcam/dartscore/config"
	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/services/scorer"
)

const (
	overlayFileName = "overlay.png"
	boardFileName   = "board.png"
)

// statusWriter prints scorer progress.
type statusWriter struct {
	w io.Writer
}

func (s statusWriter) SetStatus(status string) {
	fmt.Fprintln(s.w, status)
}

func newLogger(c *cli.Context, cfg *config.Config) (logging.Logger, io.Closer, error) {
	var logger logging.Logger
	if c.Bool(generalFlagDebug) {
		logger = logging.NewDebugLogger("dartscore")
	} else {
		logger = logging.NewLogger("dartscore")
		if cfg != nil && cfg.LogLevel != "" {
			level, err := logging.LevelFromString(cfg.LogLevel)
			if err != nil {
				return nil, nil, err
			}
			logger.SetLevel(level)
		}
	}

	var closer io.Closer = io.NopCloser(nil)
	if path := c.Path(generalFlagLogFile); path != "" {
		var appender logging.Appender
		appender, closer = logging.NewFileAppender(path)
		logger.AddAppender(appender)
	}
	return logger, closer, nil
}

// DetectAction runs one detection cycle on an image file, writes the overlay and the board, and
// prints the score table.
func DetectAction(c *cli.Context) (err error) {
	cfg, err := config.Read(c.Path(detectFlagConfig))
	if err != nil {
		return err
	}
	logger, logFile, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, logger.Sync(), logFile.Close())
	}()

	source, err := newFileFrameSource(c.Path(detectFlagImage))
	if err != nil {
		return err
	}
	backend, err := config.NewBackend(cfg, logger)
	if err != nil {
		return err
	}

	s := scorer.New(backend, source, scorer.Options{
		Status:        statusWriter{w: c.App.ErrWriter},
		MinConfidence: cfg.Backend.MinConfidence,
		BoardSize:     cfg.Render.Size(),
		BoardMargin:   cfg.Render.Margin,
	}, logger)
	defer func() {
		err = multierr.Combine(err, s.Close(c.Context))
	}()

	res, err := s.Detect(c.Context)
	if err != nil {
		return err
	}

	outDir := c.Path(detectFlagOut)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return errors.Wrapf(err, "cannot create output directory %s", outDir)
	}
	overlayPath := filepath.Join(outDir, overlayFileName)
	if err := rimage.WriteImageToFile(overlayPath, res.Overlay.Rasterize()); err != nil {
		return err
	}
	boardPath := filepath.Join(outDir, boardFileName)
	if err := rimage.WriteImageToFile(boardPath, res.Board.Drawing.Rasterize()); err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, scoreTable(res.Summary))
	logger.Infow("wrote images", "overlay", overlayPath, "board", boardPath)
	return nil
}
