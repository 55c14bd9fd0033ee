//go:build no_tflite || no_cgo

package local

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dartcam/dartscore/services/inference"
)

// TFLiteLoader returns a Loader that always fails: this build has no TensorFlow Lite support.
func TFLiteLoader(conf Config) Loader {
	return func(context.Context) (Session, error) {
		return nil, inference.NewModelLoadError(conf.ModelPath, errors.New("built without tflite support"))
	}
}
