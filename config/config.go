// Package config loads service configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/dataset"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		MaxUploadBytes  int64         `yaml:"max_upload_bytes" default:"16777216"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Forecast struct {
		Strategy      string `yaml:"strategy" default:"seasonal"`
		TestDays      int    `yaml:"test_days" default:"30"`
		FuturePeriods int    `yaml:"future_periods" default:"30"`
		MissingPolicy string `yaml:"missing_policy" default:"drop"`

		// Empty alias lists and a zero minimum keep the dataset package
		// defaults.
		TimestampAliases []string `yaml:"timestamp_aliases"`
		ValueAliases     []string `yaml:"value_aliases"`
		MinObservations  int      `yaml:"min_observations"`
	} `yaml:"forecast"`
	Cache struct {
		Disabled bool `yaml:"disabled"`
	} `yaml:"cache"`
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. Fields absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("FLEETFORECAST_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("FLEETFORECAST_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse FLEETFORECAST_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("FLEETFORECAST_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FLEETFORECAST_STRATEGY"); v != "" {
		c.Forecast.Strategy = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Forecast.TestDays < 1 {
		return fmt.Errorf("forecast.test_days must be at least 1, got %d", c.Forecast.TestDays)
	}
	if c.Forecast.FuturePeriods < 1 {
		return fmt.Errorf("forecast.future_periods must be at least 1, got %d", c.Forecast.FuturePeriods)
	}
	switch dataset.MissingPolicy(c.Forecast.MissingPolicy) {
	case dataset.MissingDrop, dataset.MissingInterpolate:
	default:
		return fmt.Errorf("forecast.missing_policy must be 'drop' or 'interpolate', got '%s'", c.Forecast.MissingPolicy)
	}
	if c.Forecast.MinObservations < 0 {
		return fmt.Errorf("forecast.min_observations must not be negative, got %d", c.Forecast.MinObservations)
	}
	return nil
}

// Params returns the run parameters this deployment starts from. Request
// fields override them per call.
func (c *Config) Params() fleetforecast.Params {
	return fleetforecast.Params{
		Strategy:      c.Forecast.Strategy,
		TestDays:      c.Forecast.TestDays,
		FuturePeriods: c.Forecast.FuturePeriods,
	}
}

// DatasetOptions returns normalization options honoring the configured
// missing value policy, column aliases, and observation floor.
func (c *Config) DatasetOptions() *dataset.Options {
	opt := dataset.NewDefaultOptions()
	opt.MissingPolicy = dataset.MissingPolicy(c.Forecast.MissingPolicy)
	if len(c.Forecast.TimestampAliases) > 0 {
		opt.TimestampAliases = c.Forecast.TimestampAliases
	}
	if len(c.Forecast.ValueAliases) > 0 {
		opt.ValueAliases = c.Forecast.ValueAliases
	}
	if c.Forecast.MinObservations > 0 {
		opt.MinObservations = c.Forecast.MinObservations
	}
	return opt
}
