// Package remote runs dart detection on a hosted inference service.
package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/services/inference"
	"github.com/dartcam/dartscore/vision/objectdetection"
)

const (
	// DefaultEndpoint is the hosted detection API.
	DefaultEndpoint = "https://detect.roboflow.com"
	// DefaultTimeout bounds one request.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 1 << 10
)

// Config describes a hosted model.
type Config struct {
	Endpoint    string
	Model       string
	Version     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	JPEGQuality int
	Scheme      scoring.Scheme
}

// Prediction is one detection as reported by the service. X and Y are the box center.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Response is the service's answer.
type Response struct {
	Predictions []Prediction `json:"predictions"`
	Image       *struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"image,omitempty"`
}

// Backend is an inference.Backend calling the hosted detection API. It holds no model state.
type Backend struct {
	conf       Config
	client     *http.Client
	logger     logging.Logger
	newBackOff func() backoff.BackOff
}

var _ inference.Backend = (*Backend)(nil)

// New returns a remote backend. Zero values in conf are replaced by defaults.
func New(conf Config, logger logging.Logger) *Backend {
	if conf.Endpoint == "" {
		conf.Endpoint = DefaultEndpoint
	}
	if conf.Timeout <= 0 {
		conf.Timeout = DefaultTimeout
	}
	if conf.JPEGQuality <= 0 || conf.JPEGQuality > 100 {
		conf.JPEGQuality = rimage.DefaultJPEGQuality
	}
	if conf.MaxRetries < 0 {
		conf.MaxRetries = 0
	}
	return &Backend{
		conf:   conf,
		client: &http.Client{},
		logger: logger,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Scheme implements inference.Backend.
func (b *Backend) Scheme() scoring.Scheme {
	return b.conf.Scheme
}

// Initialize implements inference.Backend. There is nothing to load.
func (b *Backend) Initialize(ctx context.Context) error {
	return nil
}

// Close implements inference.Backend.
func (b *Backend) Close(ctx context.Context) error {
	b.client.CloseIdleConnections()
	return nil
}

// URL returns the inference URL for the configured model.
func (b *Backend) URL() string {
	q := url.Values{}
	q.Set("api_key", b.conf.APIKey)
	return strings.TrimRight(b.conf.Endpoint, "/") + "/" + url.PathEscape(b.conf.Model) + "/" +
		url.PathEscape(b.conf.Version) + "?" + q.Encode()
}

// Infer implements inference.Backend. Network errors and overload statuses are retried up to
// MaxRetries times with exponential backoff; any other failure is returned at once.
func (b *Backend) Infer(ctx context.Context, frame image.Image) (*objectdetection.Result, error) {
	ctx, span := trace.StartSpan(ctx, "inference::remote::Infer")
	defer span.End()

	if frame == nil {
		return nil, &inference.FrameError{Err: errors.New("no frame to send")}
	}
	jpeg, err := rimage.EncodeImage(frame, rimage.MimeTypeJPEG, b.conf.JPEGQuality)
	if err != nil {
		return nil, &inference.FrameError{Err: err}
	}
	payload := base64.StdEncoding.EncodeToString(jpeg)

	var res *objectdetection.Result
	attempt := func() error {
		var err error
		res, err = b.post(ctx, payload)
		if err != nil && !inference.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b.newBackOff(), uint64(b.conf.MaxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		b.logger.Warnw("inference request failed, retrying", "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Backend) post(ctx context.Context, payload string) (*objectdetection.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.conf.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL(), strings.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "cannot build inference request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &inference.NetworkError{Err: err}
	}
	defer func() {
		//nolint:errcheck
		resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &inference.NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &inference.ServiceError{StatusCode: resp.StatusCode, Body: errorBody(body)}
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &inference.ServiceError{
			StatusCode: resp.StatusCode,
			Body:       errorBody(body),
			Err:        errors.Wrap(err, "cannot decode response"),
		}
	}
	return decoded.result(), nil
}

func (r *Response) result() *objectdetection.Result {
	res := &objectdetection.Result{Detections: make([]objectdetection.Detection, 0, len(r.Predictions))}
	for _, p := range r.Predictions {
		res.Detections = append(res.Detections, objectdetection.Detection{
			ClassLabel: p.Class,
			Confidence: p.Confidence,
			Box:        objectdetection.Box{CenterX: p.X, CenterY: p.Y, Width: p.Width, Height: p.Height},
		})
	}
	if r.Image != nil {
		res.ReportedSize = &objectdetection.ImageSize{Width: r.Image.Width, Height: r.Image.Height}
	}
	return res
}

func errorBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
