package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/services/inference"
)

const okBody = `{
	"time": 0.12,
	"image": {"width": 640, "height": 480},
	"predictions": [
		{"x": 320, "y": 240, "width": 40, "height": 30, "confidence": 0.91, "class": "t20", "class_id": 57},
		{"x": 100, "y": 50, "width": 20, "height": 20, "confidence": 0.55, "class": "db", "class_id": 1}
	]
}`

func newTestBackend(t *testing.T, url string, retries int) *Backend {
	t.Helper()
	b := New(Config{
		Endpoint:   url,
		Model:      "darts-abc",
		Version:    "3",
		APIKey:     "secret key",
		MaxRetries: retries,
		Scheme:     scoring.SchemePrefixed,
	}, logging.NewTestLogger(t))
	b.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return b
}

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 64, 48))
}

func TestInfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		test.That(t, r.Method, test.ShouldEqual, http.MethodPost)
		test.That(t, r.URL.Path, test.ShouldEqual, "/darts-abc/3")
		test.That(t, r.URL.Query().Get("api_key"), test.ShouldEqual, "secret key")
		test.That(t, r.Header.Get("Content-Type"), test.ShouldEqual, "application/x-www-form-urlencoded")

		body, err := io.ReadAll(r.Body)
		test.That(t, err, test.ShouldBeNil)
		raw, err := base64.StdEncoding.DecodeString(string(body))
		test.That(t, err, test.ShouldBeNil)
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.Width, test.ShouldEqual, 64)

		fmt.Fprint(w, okBody)
	}))
	defer server.Close()

	b := newTestBackend(t, server.URL+"/", 0)
	test.That(t, b.Initialize(context.Background()), test.ShouldBeNil)
	test.That(t, b.Scheme(), test.ShouldEqual, scoring.SchemePrefixed)

	res, err := b.Infer(context.Background(), testFrame())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.ReportedSize, test.ShouldNotBeNil)
	test.That(t, res.ReportedSize.Width, test.ShouldEqual, 640.0)
	test.That(t, res.Detections, test.ShouldHaveLength, 2)
	test.That(t, res.Detections[0].ClassLabel, test.ShouldEqual, "t20")
	test.That(t, res.Detections[0].Confidence, test.ShouldEqual, 0.91)
	test.That(t, res.Detections[0].Box.CenterX, test.ShouldEqual, 320.0)
	test.That(t, res.Detections[1].Box.Height, test.ShouldEqual, 20.0)
	test.That(t, b.Close(context.Background()), test.ShouldBeNil)
}

func TestInferNoImageSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"predictions": []}`)
	}))
	defer server.Close()

	res, err := newTestBackend(t, server.URL, 0).Infer(context.Background(), testFrame())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.ReportedSize, test.ShouldBeNil)
	test.That(t, res.Detections, test.ShouldBeEmpty)
}

func TestInferServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "model busy", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestBackend(t, server.URL, 3).Infer(context.Background(), testFrame())
	var svcErr *inference.ServiceError
	test.That(t, errors.As(err, &svcErr), test.ShouldBeTrue)
	test.That(t, svcErr.StatusCode, test.ShouldEqual, 500)
	test.That(t, svcErr.Body, test.ShouldEqual, "model busy")
	test.That(t, int(calls.Load()), test.ShouldEqual, 1)
}

func TestInferRetriesOverload(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, okBody)
	}))
	defer server.Close()

	res, err := newTestBackend(t, server.URL, 2).Infer(context.Background(), testFrame())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Detections, test.ShouldHaveLength, 2)
	test.That(t, int(calls.Load()), test.ShouldEqual, 3)

	calls.Store(0)
	_, err = newTestBackend(t, server.URL, 1).Infer(context.Background(), testFrame())
	var svcErr *inference.ServiceError
	test.That(t, errors.As(err, &svcErr), test.ShouldBeTrue)
	test.That(t, svcErr.StatusCode, test.ShouldEqual, http.StatusServiceUnavailable)
	test.That(t, int(calls.Load()), test.ShouldEqual, 2)
}

func TestInferUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>oops</html>")
	}))
	defer server.Close()

	_, err := newTestBackend(t, server.URL, 0).Infer(context.Background(), testFrame())
	var svcErr *inference.ServiceError
	test.That(t, errors.As(err, &svcErr), test.ShouldBeTrue)
	test.That(t, svcErr.StatusCode, test.ShouldEqual, 200)
	test.That(t, svcErr.Body, test.ShouldEqual, "<html>oops</html>")
	test.That(t, svcErr.Err, test.ShouldNotBeNil)
}

func TestInferNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestBackend(t, url, 0).Infer(context.Background(), testFrame())
	var netErr *inference.NetworkError
	test.That(t, errors.As(err, &netErr), test.ShouldBeTrue)
}

func TestInferNilFrame(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := newTestBackend(t, server.URL, 2).Infer(context.Background(), nil)
	var frameErr *inference.FrameError
	test.That(t, errors.As(err, &frameErr), test.ShouldBeTrue)
	test.That(t, inference.IsRetryable(err), test.ShouldBeFalse)
	test.That(t, int(calls.Load()), test.ShouldEqual, 0)
}

func TestInferTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	b := newTestBackend(t, server.URL, 0)
	b.conf.Timeout = 20 * time.Millisecond
	_, err := b.Infer(context.Background(), testFrame())
	var netErr *inference.NetworkError
	test.That(t, errors.As(err, &netErr), test.ShouldBeTrue)
}

func TestDefaults(t *testing.T) {
	b := New(Config{Model: "m", Version: "1", APIKey: "k", MaxRetries: -2, JPEGQuality: 400}, logging.NewTestLogger(t))
	test.That(t, b.conf.Timeout, test.ShouldEqual, DefaultTimeout)
	test.That(t, b.conf.MaxRetries, test.ShouldEqual, 0)
	test.That(t, b.conf.JPEGQuality, test.ShouldEqual, 80)
	test.That(t, b.URL(), test.ShouldEqual, "https://detect.roboflow.com/m/1?api_key=k")

	_, err := b.Infer(context.Background(), nil)
	test.That(t, err, test.ShouldNotBeNil)
}
