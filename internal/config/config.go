// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Values are loaded once at startup and never mutated afterwards.
//   - All loading functions accept context.Context as the first parameter.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Service identifies which geosim service a configuration is validated for.
type Service string

// Known services.
const (
	Simulation Service = "simulation"
	Spatial    Service = "spatial"
)

// Config contains process configuration.
type Config struct {
	// ClientName is the client tag echoed by both services. Required.
	ClientName string `koanf:"client"`

	// S3Bucket is echoed in the Spatial Service banner. Required for spatial.
	S3Bucket string `koanf:"s3_bucket"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: json or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":81".
	Addr string `koanf:"addr"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitRPS caps sustained requests per second; 0 disables limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// RateLimitBurst is the token bucket size used when limiting is enabled.
	RateLimitBurst int `koanf:"rate_limit_burst"`
}

// New creates a Config populated with defaults. Required identity values are
// left empty and must come from the environment or a config file.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "json",
		Addr:            ":81",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimitRPS:    0,
		RateLimitBurst:  1,
	}
}
