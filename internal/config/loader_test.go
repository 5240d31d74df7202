package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/geosim/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"client", "s3_bucket",
	"GEOSIM_CONFIG", "GEOSIM_ADDR", "GEOSIM_CLIENT", "GEOSIM_S3_BUCKET",
	"GEOSIM_LOG_LEVEL", "GEOSIM_LOG_FORMAT", "GEOSIM_SHUTDOWN_TIMEOUT",
	"GEOSIM_RATE_LIMIT_RPS", "GEOSIM_RATE_LIMIT_BURST", "GEOSIM_READ_TIMEOUT",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geosim.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When only the bare client variable is set", func() {
			_ = os.Setenv("client", "dot")

			cfg, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then the simulation config loads with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ClientName, convey.ShouldEqual, "dot")
				convey.So(cfg.Addr, convey.ShouldEqual, ":81")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 0.0)
			})
		})

		convey.Convey("When client is missing", func() {
			cfg, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then loading fails with an invalid config error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "client")
			})
		})

		convey.Convey("When client is blank", func() {
			_ = os.Setenv("client", "   ")

			_, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the spatial service lacks s3_bucket", func() {
			_ = os.Setenv("client", "dot")

			_, err := config.Load(ctx, config.Spatial)

			convey.Convey("Then loading fails naming the bucket", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "s3_bucket")
			})
		})

		convey.Convey("When the spatial service has both identifiers", func() {
			_ = os.Setenv("client", "acme")
			_ = os.Setenv("s3_bucket", "acme-tiles")

			cfg, err := config.Load(ctx, config.Spatial)

			convey.Convey("Then both are loaded verbatim", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ClientName, convey.ShouldEqual, "acme")
				convey.So(cfg.S3Bucket, convey.ShouldEqual, "acme-tiles")
			})
		})

		convey.Convey("When prefixed variables are used", func() {
			_ = os.Setenv("GEOSIM_CLIENT", "prefixed")
			_ = os.Setenv("GEOSIM_ADDR", ":8081")
			_ = os.Setenv("GEOSIM_LOG_LEVEL", "debug")
			_ = os.Setenv("GEOSIM_SHUTDOWN_TIMEOUT", "3s")
			_ = os.Setenv("GEOSIM_RATE_LIMIT_RPS", "2.5")
			_ = os.Setenv("GEOSIM_RATE_LIMIT_BURST", "5")

			cfg, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then they override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ClientName, convey.ShouldEqual, "prefixed")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 2.5)
				convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When both bare and prefixed client are set", func() {
			_ = os.Setenv("GEOSIM_CLIENT", "prefixed")
			_ = os.Setenv("client", "bare")

			cfg, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then the bare variable wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ClientName, convey.ShouldEqual, "bare")
			})
		})

		convey.Convey("When loading from a YAML file", func() {
			path := createTempConfigFile(t, `
# spatial deployment
client: "from-file"
s3_bucket: "file-bucket"
addr: ":9090"
log_format: text
idle_timeout: 2m
`)
			_ = os.Setenv("GEOSIM_CONFIG", path)

			cfg, err := config.Load(ctx, config.Spatial)

			convey.Convey("Then file values are applied over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ClientName, convey.ShouldEqual, "from-file")
				convey.So(cfg.S3Bucket, convey.ShouldEqual, "file-bucket")
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
				convey.So(cfg.IdleTimeout, convey.ShouldEqual, 2*time.Minute)
				convey.So(cfg.ReadTimeout, convey.ShouldEqual, 10*time.Second)
			})

			convey.Convey("And environment variables override the file", func() {
				_ = os.Setenv("GEOSIM_ADDR", ":7070")
				_ = os.Setenv("s3_bucket", "env-bucket")

				cfg, err := config.Load(ctx, config.Spatial)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.S3Bucket, convey.ShouldEqual, "env-bucket")
				convey.So(cfg.ClientName, convey.ShouldEqual, "from-file")
			})
		})

		convey.Convey("When the config file is invalid YAML", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("GEOSIM_CONFIG", path)
			_ = os.Setenv("client", "dot")

			cfg, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then a load error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("GEOSIM_CONFIG", "/non/existent/geosim.yaml")
			_ = os.Setenv("client", "dot")

			_, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric variable is malformed", func() {
			_ = os.Setenv("client", "dot")
			_ = os.Setenv("GEOSIM_RATE_LIMIT_BURST", "lots")

			_, err := config.Load(ctx, config.Simulation)

			convey.Convey("Then unmarshalling fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a valid spatial config", t, func() {
		cfg := config.New(context.Background())
		cfg.ClientName = "acme"
		cfg.S3Bucket = "tiles"
		convey.So(cfg.Validate(config.Spatial), convey.ShouldBeNil)

		convey.Convey("When addr is empty", func() {
			cfg.Addr = ""
			convey.So(cfg.Validate(config.Spatial), convey.ShouldNotBeNil)
		})

		convey.Convey("When log format is unknown", func() {
			cfg.LogFormat = "xml"
			convey.So(cfg.Validate(config.Spatial), convey.ShouldNotBeNil)
		})

		convey.Convey("When the rate limit is negative", func() {
			cfg.RateLimitRPS = -1
			convey.So(cfg.Validate(config.Spatial), convey.ShouldNotBeNil)
		})

		convey.Convey("When limiting is enabled with a zero burst", func() {
			cfg.RateLimitRPS = 10
			cfg.RateLimitBurst = 0
			convey.So(cfg.Validate(config.Spatial), convey.ShouldNotBeNil)
		})

		convey.Convey("When the shutdown timeout is zero", func() {
			cfg.ShutdownTimeout = 0
			convey.So(cfg.Validate(config.Spatial), convey.ShouldNotBeNil)
		})

		convey.Convey("When the service kind is unknown", func() {
			err := cfg.Validate(config.Service("billing"))
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the bucket is missing, simulation still accepts it", func() {
			cfg.S3Bucket = ""
			convey.So(cfg.Validate(config.Simulation), convey.ShouldBeNil)
			convey.So(cfg.Validate(config.Spatial), convey.ShouldNotBeNil)
		})
	})
}
