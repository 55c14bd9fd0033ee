package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/dartcam/dartscore/logging"
	"github.com/dartcam/dartscore/scoring"
	"github.com/dartcam/dartscore/services/inference"
	"github.com/dartcam/dartscore/services/inference/local"
	"github.com/dartcam/dartscore/services/inference/remote"
)

const remoteJSON = `{
	"backend": {"type": "remote", "scheme": "prefixed", "min_confidence": 0.4},
	"remote": {
		"model": "darts-gffwp",
		"version": "1",
		"api_key": "${DARTSCORE_API_KEY}",
		"timeout": "5s",
		"max_retries": 2
	},
	"render": {"board_size": 500},
	"log_level": "debug"
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	test.That(t, os.WriteFile(path, []byte(content), 0o600), test.ShouldBeNil)
	return path
}

func TestReadRemote(t *testing.T) {
	t.Setenv("DARTSCORE_API_KEY", "rf_secret")
	cfg, err := Read(writeConfig(t, remoteJSON))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEndWith, "config.json")
	test.That(t, cfg.Backend.Type, test.ShouldEqual, inference.TypeRemote)
	test.That(t, cfg.Backend.Scheme, test.ShouldEqual, scoring.SchemePrefixed)
	test.That(t, cfg.Backend.MinConfidence, test.ShouldEqual, 0.4)
	test.That(t, cfg.Remote.APIKey, test.ShouldEqual, "rf_secret")
	test.That(t, cfg.Remote.TimeoutDuration(), test.ShouldEqual, 5*time.Second)
	test.That(t, cfg.Remote.JPEGQuality, test.ShouldEqual, 80)
	test.That(t, cfg.Render.Size().Width, test.ShouldEqual, 500)

	backend, err := NewBackend(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	rb, ok := backend.(*remote.Backend)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, rb.URL(), test.ShouldEqual, "https://detect.roboflow.com/darts-gffwp/1?api_key=rf_secret")
	test.That(t, backend.Scheme(), test.ShouldEqual, scoring.SchemePrefixed)
}

func TestReadLocal(t *testing.T) {
	cfg, err := FromReader("", strings.NewReader(`{
		"backend": {"type": "local", "scheme": "plain_number"},
		"local": {"model_path": "/models/darts.tflite", "label_path": "/models/labels.txt", "num_threads": 2}
	}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Backend.Scheme, test.ShouldEqual, scoring.SchemePlainNumber)
	test.That(t, cfg.Render.Size().Width, test.ShouldEqual, 0)

	backend, err := NewBackend(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	_, ok := backend.(*local.Backend)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, backend.Scheme(), test.ShouldEqual, scoring.SchemePlainNumber)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("", strings.NewReader(`{"backend": `))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to decode Config from json")

	_, err = FromReader("", strings.NewReader(`{"backend": {"type": "local", "scheme": "morse"}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "morse")
}

func TestValidate(t *testing.T) {
	validRemote := func() *RemoteConfig {
		return &RemoteConfig{Model: "m", Version: "1", APIKey: "k"}
	}
	for _, tc := range []struct {
		name string
		cfg  Config
		err  string
	}{
		{"missing type", Config{}, `"type" is required`},
		{"unknown type", Config{Backend: BackendConfig{Type: "cloud"}}, `unknown backend type "cloud"`},
		{"bad confidence", Config{Backend: BackendConfig{Type: inference.TypeRemote, MinConfidence: 1.5}, Remote: validRemote()}, "min_confidence"},
		{"missing local", Config{Backend: BackendConfig{Type: inference.TypeLocal}}, `"local" is required`},
		{"missing model path", Config{Backend: BackendConfig{Type: inference.TypeLocal}, Local: &LocalConfig{}}, `"model_path" is required`},
		{"missing remote", Config{Backend: BackendConfig{Type: inference.TypeRemote}}, `"remote" is required`},
		{"missing api key", Config{
			Backend: BackendConfig{Type: inference.TypeRemote},
			Remote:  &RemoteConfig{Model: "m", Version: "1"},
		}, `"api_key" is required`},
		{"bad timeout", Config{
			Backend: BackendConfig{Type: inference.TypeRemote},
			Remote:  &RemoteConfig{Model: "m", Version: "1", APIKey: "k", Timeout: "soon"},
		}, "timeout"},
		{"negative retries", Config{
			Backend: BackendConfig{Type: inference.TypeRemote},
			Remote:  &RemoteConfig{Model: "m", Version: "1", APIKey: "k", MaxRetries: -1},
		}, "max_retries"},
		{"bad quality", Config{
			Backend: BackendConfig{Type: inference.TypeRemote},
			Remote:  &RemoteConfig{Model: "m", Version: "1", APIKey: "k", JPEGQuality: 101},
		}, "jpeg_quality"},
		{"negative board", Config{
			Backend: BackendConfig{Type: inference.TypeRemote},
			Remote:  validRemote(),
			Render:  RenderConfig{BoardSize: -1},
		}, "board_size"},
		{"bad log level", Config{
			Backend:  BackendConfig{Type: inference.TypeRemote},
			Remote:   validRemote(),
			LogLevel: "loud",
		}, "log_level"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}

	cfg := Config{Backend: BackendConfig{Type: inference.TypeRemote}, Remote: validRemote()}
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.Remote.TimeoutDuration(), test.ShouldEqual, remote.DefaultTimeout)
}

func TestValidationErrorsNameTheSection(t *testing.T) {
	cfg := Config{
		Backend: BackendConfig{Type: inference.TypeRemote},
		Remote:  &RemoteConfig{Model: "m", Version: "1"},
	}
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "remote"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"api_key" is required`)

	cfg = Config{Backend: BackendConfig{Type: inference.TypeLocal}}
	err = cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "config"`)
}
