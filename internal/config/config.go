// Package config loads client settings from the environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/soracom-sdk/soracom-go/internal/apierrors"
	"github.com/soracom-sdk/soracom-go/internal/logging"
)

// Prefix is prepended to every variable name.
const Prefix = "SORACOM"

// Environment variable names.
const (
	EnvEndpoint        = "SORACOM_ENDPOINT"
	EnvSandboxEndpoint = "SORACOM_SANDBOX_ENDPOINT"
	EnvAuthKeyID       = "SORACOM_AUTHKEY_ID"
	EnvAuthKey         = "SORACOM_AUTHKEY"
	EnvSandboxEmail    = "SORACOM_SANDBOX_EMAIL"
	EnvSandboxPassword = "SORACOM_SANDBOX_PASSWORD"
	EnvTimeout         = "SORACOM_TIMEOUT"
	EnvLogLevel        = "SORACOM_LOG_LEVEL"
	EnvLogFormat       = "SORACOM_LOG_FORMAT"
)

// Config holds the settings shared by the CLI, examples and integration tests.
type Config struct {
	Endpoint        string `envconfig:"ENDPOINT" default:"g.api.soracom.io"`
	SandboxEndpoint string `envconfig:"SANDBOX_ENDPOINT" default:"api-sandbox.soracom.io"`

	AuthKeyID string `envconfig:"AUTHKEY_ID"`
	AuthKey   string `envconfig:"AUTHKEY"`

	SandboxEmail    string `envconfig:"SANDBOX_EMAIL"`
	SandboxPassword string `envconfig:"SANDBOX_PASSWORD"`

	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

// Load reads envFiles into the process environment, then decodes the
// SORACOM_* variables. Variables already set win over file contents.
// Missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Require returns an EnvLookup error for every key whose value is empty.
func (c *Config) Require(keys ...string) error {
	var errs []error
	for _, key := range keys {
		v, ok := c.lookup(key)
		if !ok {
			errs = append(errs, apierrors.NewEnvLookupError(key, errors.New("unknown setting")))
			continue
		}
		if v == "" {
			errs = append(errs, apierrors.NewEnvLookupError(key, nil))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) lookup(key string) (string, bool) {
	switch key {
	case EnvEndpoint:
		return c.Endpoint, true
	case EnvSandboxEndpoint:
		return c.SandboxEndpoint, true
	case EnvAuthKeyID:
		return c.AuthKeyID, true
	case EnvAuthKey:
		return c.AuthKey, true
	case EnvSandboxEmail:
		return c.SandboxEmail, true
	case EnvSandboxPassword:
		return c.SandboxPassword, true
	case EnvTimeout:
		if c.Timeout == 0 {
			return "", true
		}
		return c.Timeout.String(), true
	case EnvLogLevel:
		return c.LogLevel, true
	case EnvLogFormat:
		return c.LogFormat, true
	}
	return "", false
}

// Logger builds a logger from LogLevel and LogFormat writing to w.
func (c *Config) Logger(w io.Writer) *zap.Logger {
	return logging.NewLogger(c.LogLevel, c.LogFormat, w)
}

// LookupEnv returns the value of key, or an EnvLookup error when it is unset or empty.
func LookupEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", apierrors.NewEnvLookupError(key, nil)
	}
	return v, nil
}
