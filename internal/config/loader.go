package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "GEOSIM_"
	envConfigFile = "GEOSIM_CONFIG"
)

// bareEnvKeys are read without prefix, exactly as deployments set them.
var bareEnvKeys = map[string]struct{}{ //nolint:gochecknoglobals // fixed lookup table
	"client":    {},
	"s3_bucket": {},
}

// Load builds a Config for svc by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if GEOSIM_CONFIG is set
//  3. env (prefix GEOSIM_)
//  4. bare env "client" and "s3_bucket"
func Load(ctx context.Context, svc Service) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// GEOSIM_LOG_LEVEL -> log_level, GEOSIM_S3_BUCKET -> s3_bucket.
	prefixed := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	bare := env.Provider("", ".", func(s string) string {
		if _, ok := bareEnvKeys[s]; ok {
			return s
		}
		return ""
	})
	if err := k.Load(bare, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(svc); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants svc relies on after startup.
func (c *Config) Validate(svc Service) error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.ClientName) == "" {
		return fmt.Errorf("%w: client must be set (env \"client\")", ErrInvalidConfig)
	}

	switch svc {
	case Simulation:
	case Spatial:
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("%w: s3_bucket must be set (env \"s3_bucket\")", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown service %q", ErrInvalidConfig, svc)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log_format must be json or text, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate_limit_burst must be at least 1 when limiting", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
