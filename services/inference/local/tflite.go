//go:build !no_tflite && !no_cgo

package local

import (
	"context"
	"image"
	"runtime"
	"sync"

	tflite "github.com/mattn/go-tflite"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/services/inference"
)

// TFLiteLoader returns a Loader for an SSD-style TensorFlow Lite detector with outputs
// locations, classes, scores and count.
func TFLiteLoader(conf Config) Loader {
	return func(ctx context.Context) (Session, error) {
		_, span := trace.StartSpan(ctx, "inference::local::loadTFLite")
		defer span.End()
		return newTFLiteSession(conf)
	}
}

type tfliteSession struct {
	mu          sync.Mutex
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	labels      []string

	inputWidth  int
	inputHeight int
	inputFloat  bool
}

func newTFLiteSession(conf Config) (*tfliteSession, error) {
	fail := func(err error) (*tfliteSession, error) {
		return nil, inference.NewModelLoadError(conf.ModelPath, err)
	}

	var labels []string
	if conf.LabelPath != "" {
		var err error
		if labels, err = ReadLabels(conf.LabelPath); err != nil {
			return fail(err)
		}
	}

	model := tflite.NewModelFromFile(conf.ModelPath)
	if model == nil {
		return fail(errors.New("cannot create model from file"))
	}

	options := tflite.NewInterpreterOptions()
	if options == nil {
		model.Delete()
		return fail(errors.New("cannot create interpreter options"))
	}
	numThreads := conf.NumThreads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	options.SetNumThread(numThreads)
	logger := logging.Global().Sublogger("tflite")
	options.SetErrorReporter(func(msg string, _ interface{}) {
		logger.Warn(msg)
	}, nil)

	s := &tfliteSession{model: model, options: options, labels: labels}
	s.interpreter = tflite.NewInterpreter(model, options)
	if s.interpreter == nil {
		s.release()
		return fail(errors.New("cannot create interpreter"))
	}
	if status := s.interpreter.AllocateTensors(); status != tflite.OK {
		s.release()
		return fail(errors.New("cannot allocate tensors"))
	}

	input := s.interpreter.GetInputTensor(0)
	if input == nil || input.NumDims() != 4 {
		s.release()
		return fail(errors.New("model input is not an image tensor"))
	}
	s.inputHeight = input.Dim(1)
	s.inputWidth = input.Dim(2)
	switch input.Type() {
	case tflite.UInt8:
	case tflite.Float32:
		s.inputFloat = true
	default:
		s.release()
		return fail(errors.Errorf("unsupported input tensor type %v", input.Type()))
	}
	if n := s.interpreter.GetOutputTensorCount(); n < 4 {
		s.release()
		return fail(errors.Errorf("expected 4 output tensors, got %d", n))
	}
	return s, nil
}

func (s *tfliteSession) Detect(ctx context.Context, frame image.Image) ([]Prediction, error) {
	_, span := trace.StartSpan(ctx, "inference::local::tflite::Detect")
	defer span.End()

	if frame == nil {
		return nil, errors.New("no frame")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	input := s.interpreter.GetInputTensor(0)
	if status := input.CopyFromBuffer(inputTensor(frame, s.inputWidth, s.inputHeight, s.inputFloat)); status != tflite.OK {
		return nil, errors.New("copying to input tensor failed")
	}
	if status := s.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.New("invoke failed")
	}

	out := ssdOutput{
		Locations: outputFloats(s.interpreter.GetOutputTensor(0)),
		Classes:   outputFloats(s.interpreter.GetOutputTensor(1)),
		Scores:    outputFloats(s.interpreter.GetOutputTensor(2)),
	}
	if count := outputFloats(s.interpreter.GetOutputTensor(3)); len(count) > 0 {
		out.Count = int(count[0])
	}
	bounds := frame.Bounds()
	return out.decode(s.labels, bounds.Dx(), bounds.Dy()), nil
}

func outputFloats(t *tflite.Tensor) []float64 {
	if t == nil {
		return nil
	}
	var out []float64
	switch t.Type() {
	case tflite.Float32:
		for _, v := range t.Float32s() {
			out = append(out, float64(v))
		}
	case tflite.UInt8:
		for _, v := range t.UInt8s() {
			out = append(out, float64(v))
		}
	}
	return out
}

func (s *tfliteSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
	return nil
}

func (s *tfliteSession) release() {
	if s.interpreter != nil {
		s.interpreter.Delete()
		s.interpreter = nil
	}
	if s.options != nil {
		s.options.Delete()
		s.options = nil
	}
	if s.model != nil {
		s.model.Delete()
		s.model = nil
	}
}
