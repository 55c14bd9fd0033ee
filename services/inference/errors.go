package inference

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ModelLoadError is returned when a local model session could not be created.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load model: %v", e.Err)
	}
	return fmt.Sprintf("failed to load model %q: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// NewModelLoadError wraps err as a ModelLoadError.
func NewModelLoadError(path string, err error) error {
	return &ModelLoadError{Path: path, Err: err}
}

// SessionError is returned when a loaded local model fails while running on a frame.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("local inference failed: %v", e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// FrameError is returned when a frame cannot be handed to a model at all, such as a missing
// frame or one that fails to encode.
type FrameError struct {
	Err error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("invalid frame: %v", e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// NetworkError is returned when the inference service could not be reached.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("inference service unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError is returned when the inference service answered with a non-success status or a
// body that could not be decoded.
type ServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("HTTP %d", e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the status is worth asking again for.
func (e *ServiceError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether an Infer error is transient: a network failure or a service
// status that signals overload.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Retryable()
	}
	return false
}
