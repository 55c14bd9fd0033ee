package inject

import (
	"context"
	"image"

	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/services/inference"
	"github.com/dartcam/dartscore/vision/objectdetection"
)

// Backend is an injected inference backend.
type Backend struct {
	inference.Backend
	InitializeFunc func(ctx context.Context) error
	InferFunc      func(ctx context.Context, frame image.Image) (*objectdetection.Result, error)
	CloseFunc      func(ctx context.Context) error
	SchemeFunc     func() scoring.Scheme
}

// Initialize calls the injected Initialize or the real version.
func (b *Backend) Initialize(ctx context.Context) error {
	if b.InitializeFunc == nil {
		if b.Backend == nil {
			return nil
		}
		return b.Backend.Initialize(ctx)
	}
	return b.InitializeFunc(ctx)
}

// Infer calls the injected Infer or the real version.
func (b *Backend) Infer(ctx context.Context, frame image.Image) (*objectdetection.Result, error) {
	if b.InferFunc == nil {
		if b.Backend == nil {
			return &objectdetection.Result{}, nil
		}
		return b.Backend.Infer(ctx, frame)
	}
	return b.InferFunc(ctx, frame)
}

// Close calls the injected Close or the real version.
func (b *Backend) Close(ctx context.Context) error {
	if b.CloseFunc == nil {
		if b.Backend == nil {
			return nil
		}
		return b.Backend.Close(ctx)
	}
	return b.CloseFunc(ctx)
}

// Scheme calls the injected Scheme or the real version.
func (b *Backend) Scheme() scoring.Scheme {
	if b.SchemeFunc == nil {
		if b.Backend == nil {
			return scoring.SchemePrefixed
		}
		return b.Backend.Scheme()
	}
	return b.SchemeFunc()
}
