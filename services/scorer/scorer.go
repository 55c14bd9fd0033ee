// Package scorer runs detection cycles: capture a frame, detect darts, score them and render the
// overlay and the board.
package scorer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/dartcam/dartscore/dartboard"
	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/services/inference"
	"github.com/dartcam/dartscore/vision/objectdetection"
	"github.com/dartcam/dartscore/vision/overlay"
)

var (
	// ErrCaptureUnavailable is returned when there is no frame source or it has no video yet.
	ErrCaptureUnavailable = errors.New("no stream active")
	// ErrCycleInFlight is returned when a detection cycle is requested while one is running.
	ErrCycleInFlight = errors.New("detection already in progress")
)

// FrameSource supplies captured frames. A zero width means nothing is being captured.
type FrameSource interface {
	Size() (int, int)
	Frame(ctx context.Context) (image.Image, error)
}

// Trigger is whatever starts a cycle, such as a button. It is disabled while a cycle runs.
type Trigger interface {
	SetEnabled(enabled bool)
}

// StatusSink receives human readable progress messages.
type StatusSink interface {
	SetStatus(status string)
}

// DefaultBoardSize is the size of the rendered board when none is configured.
var DefaultBoardSize = rimage.Size{Width: 400, Height: 400}

// Options configure a Scorer. Every field is optional.
type Options struct {
	Trigger       Trigger
	Status        StatusSink
	MinConfidence float64
	BoardSize     rimage.Size
	BoardMargin   float64
	Clock         clock.Clock
}

// Result is everything one successful cycle produced.
type Result struct {
	ID       string
	Frame    image.Image
	Overlay  *rimage.Drawing
	Board    *dartboard.Board
	Hits     []scoring.Hit
	Summary  scoring.Summary
	Status   string
	Duration time.Duration
}

// Scorer runs one detection cycle at a time against a backend.
type Scorer struct {
	backend inference.Backend
	source  FrameSource
	opts    Options
	logger  logging.Logger

	inFlight atomic.Bool
	loaded   atomic.Bool
	last     atomic.Pointer[Result]
	idle     *dartboard.Board
}

// New returns a scorer and renders the idle board.
func New(backend inference.Backend, source FrameSource, opts Options, logger logging.Logger) *Scorer {
	if opts.BoardSize.Width <= 0 || opts.BoardSize.Height <= 0 {
		opts.BoardSize = DefaultBoardSize
	}
	if opts.BoardMargin <= 0 {
		opts.BoardMargin = dartboard.DefaultMargin
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	s := &Scorer{
		backend: backend,
		source:  source,
		opts:    opts,
		logger:  logger,
	}
	s.idle = s.renderBoard(nil)
	return s
}

// IdleBoard is the board with no hits, shown before the first cycle.
func (s *Scorer) IdleBoard() *dartboard.Board {
	return s.idle
}

// Last returns the result of the most recent successful cycle, or nil.
func (s *Scorer) Last() *Result {
	return s.last.Load()
}

// Close releases the backend.
func (s *Scorer) Close(ctx context.Context) error {
	return s.backend.Close(ctx)
}

// StatusText returns the summary message for a cycle that found n darts.
func StatusText(n int) string {
	switch n {
	case 0:
		return scoring.NoDetectionsText
	case 1:
		return "1 dart detected"
	default:
		return fmt.Sprintf("%d darts detected", n)
	}
}

// Detect runs one cycle. It never queues: if a cycle is already running it returns
// ErrCycleInFlight at once. On failure the previous result stays published.
func (s *Scorer) Detect(ctx context.Context) (*Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCycleInFlight
	}
	defer s.inFlight.Store(false)

	if s.source == nil {
		s.setStatus("No stream active, connect first.")
		return nil, ErrCaptureUnavailable
	}
	if w, _ := s.source.Size(); w <= 0 {
		s.setStatus("No stream active, connect first.")
		return nil, ErrCaptureUnavailable
	}

	s.setTrigger(false)
	defer s.setTrigger(true)

	id := uuid.NewString()
	logger := s.logger.Sublogger(id[:8])
	start := s.opts.Clock.Now()

	if !s.loaded.Load() {
		s.setStatus("Loading model…")
		if err := s.backend.Initialize(ctx); err != nil {
			logger.Errorw("model load failed", "error", err)
			s.setStatus("Load error: " + err.Error())
			return nil, err
		}
		s.loaded.Store(true)
	}

	s.setStatus("Analyzing frame…")
	res, err := s.run(ctx, logger)
	if err != nil {
		logger.Errorw("detection failed", "error", err)
		s.setStatus("Error: " + err.Error())
		return nil, err
	}

	res.ID = id
	res.Duration = s.opts.Clock.Since(start)
	s.last.Store(res)
	s.setStatus(res.Status)
	logger.Infow("detection finished",
		"darts", len(res.Hits),
		"total", res.Summary.Total,
		"duration", res.Duration,
	)
	return res, nil
}

func (s *Scorer) run(ctx context.Context, logger logging.Logger) (*Result, error) {
	frame, err := s.source.Frame(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot capture frame")
	}
	if frame == nil {
		return nil, ErrCaptureUnavailable
	}

	raw, err := s.backend.Infer(ctx, frame)
	if err != nil {
		return nil, err
	}

	bounds := frame.Bounds()
	render := objectdetection.ImageSize{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}
	detections := objectdetection.MapResult(raw, render)
	if s.opts.MinConfidence > 0 {
		kept := objectdetection.NewScoreFilter(s.opts.MinConfidence)(detections)
		if dropped := len(detections) - len(kept); dropped > 0 {
			logger.Debugw("dropped low confidence detections", "count", dropped)
		}
		detections = kept
	}

	scheme := s.backend.Scheme()
	hits := scoring.FromDetections(detections, scheme)
	for _, h := range hits {
		logger.Debugw("hit", "class", h.SourceClass, "label", h.Label, "score", h.Score, "confidence", h.Confidence)
	}

	return &Result{
		Frame:   frame,
		Overlay: overlay.Render(frame, hits, scheme),
		Board:   s.renderBoard(hits),
		Hits:    hits,
		Summary: scoring.Aggregate(hits),
		Status:  StatusText(len(hits)),
	}, nil
}

func (s *Scorer) renderBoard(hits []scoring.Hit) *dartboard.Board {
	return dartboard.RenderWithOptions(s.opts.BoardSize, hits, dartboard.Options{Margin: s.opts.BoardMargin})
}

func (s *Scorer) setStatus(status string) {
	if s.opts.Status != nil {
		s.opts.Status.SetStatus(status)
	}
}

func (s *Scorer) setTrigger(enabled bool) {
	if s.opts.Trigger != nil {
		s.opts.Trigger.SetEnabled(enabled)
	}
}
