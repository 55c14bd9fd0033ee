// Package config defines the structures to configure dart detection.
package config

import (
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/services/inference"
	"github.com/dartcam/dartscore/services/inference/remote"
)

// Config describes a detection setup: which backend to run and how to render its results.
type Config struct {
	ConfigFilePath string `json:"-"`

	Backend  BackendConfig `json:"backend"`
	Remote   *RemoteConfig `json:"remote,omitempty"`
	Local    *LocalConfig  `json:"local,omitempty"`
	Render   RenderConfig  `json:"render"`
	LogLevel string        `json:"log_level,omitempty"`
}

// BackendConfig selects the inference backend and the label taxonomy of its model.
type BackendConfig struct {
	Type          inference.Type `json:"type"`
	Scheme        scoring.Scheme `json:"scheme"`
	MinConfidence float64        `json:"min_confidence,omitempty"`
}

// RemoteConfig describes a model hosted behind the detection API.
type RemoteConfig struct {
	Endpoint    string `json:"endpoint,omitempty"`
	Model       string `json:"model"`
	Version     string `json:"version"`
	APIKey      string `json:"api_key"`
	Timeout     string `json:"timeout,omitempty"`
	MaxRetries  int    `json:"max_retries,omitempty"`
	JPEGQuality int    `json:"jpeg_quality,omitempty"`

	timeout time.Duration
}

// LocalConfig describes a model file run in-process.
type LocalConfig struct {
	ModelPath  string `json:"model_path"`
	LabelPath  string `json:"label_path,omitempty"`
	NumThreads int    `json:"num_threads,omitempty"`
}

// RenderConfig controls the board drawing.
type RenderConfig struct {
	BoardSize int     `json:"board_size,omitempty"`
	Margin    float64 `json:"margin,omitempty"`
}

// Validate ensures all parts of the config are valid and fills in defaults.
func (c *Config) Validate() error {
	if err := c.Backend.Validate("backend"); err != nil {
		return err
	}
	switch c.Backend.Type {
	case inference.TypeLocal:
		if c.Local == nil {
			return utils.NewConfigValidationFieldRequiredError("config", "local")
		}
		if err := c.Local.Validate("local"); err != nil {
			return err
		}
	case inference.TypeRemote:
		if c.Remote == nil {
			return utils.NewConfigValidationFieldRequiredError("config", "remote")
		}
		if err := c.Remote.Validate("remote"); err != nil {
			return err
		}
	}
	if err := c.Render.Validate("render"); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			return utils.NewConfigValidationError("log_level", err)
		}
	}
	return nil
}

// Validate ensures the backend section is valid.
func (c *BackendConfig) Validate(path string) error {
	switch c.Type {
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	case inference.TypeLocal, inference.TypeRemote:
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown backend type %q", c.Type))
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return utils.NewConfigValidationError(path, errors.New("min_confidence must be between 0 and 1"))
	}
	return nil
}

// Validate ensures the remote section is valid and parses its timeout.
func (c *RemoteConfig) Validate(path string) error {
	if c.Model == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "model")
	}
	if c.Version == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "version")
	}
	if c.APIKey == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "api_key")
	}
	c.timeout = remote.DefaultTimeout
	if c.Timeout != "" {
		timeout, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return utils.NewConfigValidationError(path, errors.Wrap(err, "error validating timeout"))
		}
		if timeout <= 0 {
			return utils.NewConfigValidationError(path, errors.New("timeout must be positive"))
		}
		c.timeout = timeout
	}
	if c.MaxRetries < 0 {
		return utils.NewConfigValidationError(path, errors.New("max_retries cannot be negative"))
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return utils.NewConfigValidationError(path, errors.New("jpeg_quality must be between 1 and 100"))
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = rimage.DefaultJPEGQuality
	}
	return nil
}

// TimeoutDuration returns the parsed request timeout. It is only set after Validate.
func (c *RemoteConfig) TimeoutDuration() time.Duration {
	return c.timeout
}

// Validate ensures the local section is valid.
func (c *LocalConfig) Validate(path string) error {
	if c.ModelPath == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "model_path")
	}
	if c.NumThreads < 0 {
		return utils.NewConfigValidationError(path, errors.New("num_threads cannot be negative"))
	}
	return nil
}

// Validate ensures the render section is valid.
func (c *RenderConfig) Validate(path string) error {
	if c.BoardSize < 0 {
		return utils.NewConfigValidationError(path, errors.New("board_size cannot be negative"))
	}
	if c.Margin < 0 {
		return utils.NewConfigValidationError(path, errors.New("margin cannot be negative"))
	}
	return nil
}

// Size returns the square board size, or the zero size when unset.
func (c RenderConfig) Size() rimage.Size {
	return rimage.Size{Width: c.BoardSize, Height: c.BoardSize}
}
