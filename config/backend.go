package config

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/services/inference"
	"github.com/dartcam/dartscore/services/inference/local"
	"github.com/dartcam/dartscore/services/inference/remote"
)

// NewBackend builds the configured inference backend. The config must have been validated.
func NewBackend(cfg *Config, logger logging.Logger) (inference.Backend, error) {
	scheme := cfg.Backend.Scheme
	switch cfg.Backend.Type {
	case inference.TypeLocal:
		if cfg.Local == nil {
			return nil, utils.NewConfigValidationFieldRequiredError("config", "local")
		}
		return local.New(local.Config{
			ModelPath:  cfg.Local.ModelPath,
			LabelPath:  cfg.Local.LabelPath,
			NumThreads: cfg.Local.NumThreads,
			Scheme:     scheme,
		}, logger.Sublogger("local")), nil
	case inference.TypeRemote:
		if cfg.Remote == nil {
			return nil, utils.NewConfigValidationFieldRequiredError("config", "remote")
		}
		return remote.New(remote.Config{
			Endpoint:    cfg.Remote.Endpoint,
			Model:       cfg.Remote.Model,
			Version:     cfg.Remote.Version,
			APIKey:      cfg.Remote.APIKey,
			Timeout:     cfg.Remote.TimeoutDuration(),
			MaxRetries:  cfg.Remote.MaxRetries,
			JPEGQuality: cfg.Remote.JPEGQuality,
			Scheme:      scheme,
		}, logger.Sublogger("remote")), nil
	default:
		return nil, errors.Errorf("unknown backend type %q", cfg.Backend.Type)
	}
}
