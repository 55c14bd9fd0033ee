// Package local runs a dart detection model in-process.
package local

import (
	"context"
	"image"
	"sync"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/services/inference"
	"github.com/dartcam/dartscore/vision/objectdetection"
)

// BBox is a detection box in frame pixels. X and Y are the box center.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Prediction is one raw detection produced by a session.
type Prediction struct {
	Class      string
	Confidence float64
	BBox       BBox
}

// Session is a loaded model.
type Session interface {
	Detect(ctx context.Context, frame image.Image) ([]Prediction, error)
	Close() error
}

// Loader creates a model session.
type Loader func(ctx context.Context) (Session, error)

// Config describes a local model.
type Config struct {
	ModelPath  string
	LabelPath  string
	NumThreads int
	Scheme     scoring.Scheme
}

// Backend is an inference.Backend that owns one model session, loaded on first use.
type Backend struct {
	mu      sync.Mutex
	session Session

	loader Loader
	path   string
	scheme scoring.Scheme
	logger logging.Logger
}

var _ inference.Backend = (*Backend)(nil)

// New returns a backend running the configured TensorFlow Lite model.
func New(conf Config, logger logging.Logger) *Backend {
	return NewWithLoader(TFLiteLoader(conf), conf.ModelPath, conf.Scheme, logger)
}

// NewWithLoader returns a backend whose session comes from loader. path is only used in errors
// and logs.
func NewWithLoader(loader Loader, path string, scheme scoring.Scheme, logger logging.Logger) *Backend {
	return &Backend{
		loader: loader,
		path:   path,
		scheme: scheme,
		logger: logger,
	}
}

// Scheme implements inference.Backend.
func (b *Backend) Scheme() scoring.Scheme {
	return b.scheme
}

// Initialize loads the model session unless it is already loaded. A failed load leaves the
// backend unloaded so that the next call tries again.
func (b *Backend) Initialize(ctx context.Context) error {
	_, err := b.loadedSession(ctx)
	return err
}

func (b *Backend) loadedSession(ctx context.Context) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		return b.session, nil
	}

	ctx, span := trace.StartSpan(ctx, "inference::local::Initialize")
	defer span.End()

	b.logger.Infow("loading model", "path", b.path)
	session, err := b.loader(ctx)
	if err != nil {
		var loadErr *inference.ModelLoadError
		if !errors.As(err, &loadErr) {
			err = inference.NewModelLoadError(b.path, err)
		}
		return nil, err
	}
	if session == nil {
		return nil, inference.NewModelLoadError(b.path, errors.New("loader returned no session"))
	}
	b.session = session
	return session, nil
}

// Infer implements inference.Backend. Boxes are in frame pixels, so the result carries no
// reported size.
func (b *Backend) Infer(ctx context.Context, frame image.Image) (*objectdetection.Result, error) {
	session, err := b.loadedSession(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := trace.StartSpan(ctx, "inference::local::Infer")
	defer span.End()

	predictions, err := session.Detect(ctx, frame)
	if err != nil {
		return nil, &inference.SessionError{Err: err}
	}

	res := &objectdetection.Result{Detections: make([]objectdetection.Detection, 0, len(predictions))}
	for _, p := range predictions {
		res.Detections = append(res.Detections, objectdetection.Detection{
			ClassLabel: p.Class,
			Confidence: p.Confidence,
			Box: objectdetection.Box{
				CenterX: p.BBox.X,
				CenterY: p.BBox.Y,
				Width:   p.BBox.Width,
				Height:  p.BBox.Height,
			},
		})
	}
	return res, nil
}

// Close releases the session. The backend may be initialized again afterwards.
func (b *Backend) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return nil
	}
	err := b.session.Close()
	b.session = nil
	return err
}
