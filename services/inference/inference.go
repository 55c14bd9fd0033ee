// Package inference defines the detection backends that turn a captured frame into raw dart
// detections.
package inference

import (
	"context"
	"image"

	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/vision/objectdetection"
)

// Backend runs a detection model on a frame. Implementations are safe to Initialize more than
// once; the first successful call does the work and later calls are no-ops.
type Backend interface {
	// Initialize prepares the backend, loading any model it owns.
	Initialize(ctx context.Context) error
	// Infer returns the detections for a frame. Errors are *FrameError, *ModelLoadError,
	// *SessionError, *NetworkError or *ServiceError, possibly wrapped.
	Infer(ctx context.Context, frame image.Image) (*objectdetection.Result, error)
	// Close releases everything the backend owns.
	Close(ctx context.Context) error
	// Scheme is the label taxonomy of the backend's model.
	Scheme() scoring.Scheme
}

// Type names a backend variant in configuration.
type Type string

// Known backend types.
const (
	TypeLocal  Type = "local"
	TypeRemote Type = "remote"
)
