package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/geosim/internal/adapters/http/api"
	"github.com/okian/geosim/internal/config"
	"github.com/okian/geosim/internal/smoke"
	"github.com/okian/geosim/pkg/logger"
)

func clearServiceEnv() {
	for _, k := range []string{"client", "s3_bucket", "GEOSIM_ADDR", "GEOSIM_CONFIG", "GEOSIM_LOG_LEVEL", "GEOSIM_SHUTDOWN_TIMEOUT"} {
		_ = os.Unsetenv(k)
	}
}

func execute(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the geosim root command", t, func() {
		clearServiceEnv()
		convey.Reset(clearServiceEnv)

		convey.Convey("When listing subcommands", func() {
			names := map[string]bool{}
			for _, c := range newRootCmd().Commands() {
				names[c.Name()] = true
			}

			convey.Convey("Then both services plus smoke and version are present", func() {
				convey.So(names["simulation"], convey.ShouldBeTrue)
				convey.So(names["spatial"], convey.ShouldBeTrue)
				convey.So(names["smoke"], convey.ShouldBeTrue)
				convey.So(names["version"], convey.ShouldBeTrue)
			})
		})

		convey.Convey("When printing versions", func() {
			out, err := execute(context.Background(), "version")

			convey.Convey("Then each service version is listed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, "simulation 0.1.0\nspatial 0.2.1\n")
			})
		})

		convey.Convey("When simulation starts without a client", func() {
			_, err := execute(context.Background(), "simulation")

			convey.Convey("Then startup fails with an invalid config error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When spatial starts without s3_bucket", func() {
			_ = os.Setenv("client", "acme")
			_, err := execute(context.Background(), "spatial")

			convey.Convey("Then startup fails with an invalid config error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "s3_bucket")
			})
		})

		convey.Convey("When simulation starts with a client until cancelled", func() {
			_ = os.Setenv("client", "acme")
			_ = os.Setenv("GEOSIM_ADDR", "127.0.0.1:0")
			_ = os.Setenv("GEOSIM_LOG_LEVEL", "loud")
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			out, err := execute(ctx, "simulation")

			convey.Convey("Then it shuts down cleanly after warning about the log level", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "invalid log_level")
				convey.So(out, convey.ShouldContainSubstring, "server stopped")
			})
		})

		convey.Convey("When an unknown subcommand is given", func() {
			_, err := execute(context.Background(), "billing")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestSmokeCommand(t *testing.T) {
	convey.Convey("Given a spatial service behind a test server", t, func() {
		mux := http.NewServeMux()
		api.Register(context.Background(), mux, append(routesFor(config.Spatial, &config.Config{
			ClientName: "acme",
			S3Bucket:   "tiles",
		}, logger.Discard()), api.SystemRoutes("spatial")...))
		ts := httptest.NewServer(mux)
		convey.Reset(ts.Close)

		convey.Convey("When smoke runs with matching identity", func() {
			out, err := execute(context.Background(), "smoke",
				"--url", ts.URL, "--service", "spatial", "--client", "acme", "--bucket", "tiles")

			convey.Convey("Then it reports the passed checks", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "2 checks passed")
			})
		})

		convey.Convey("When smoke expects a different bucket", func() {
			_, err := execute(context.Background(), "smoke",
				"--url", ts.URL, "--service", "spatial", "--client", "acme", "--bucket", "other")

			convey.Convey("Then the command fails", func() {
				convey.So(errors.Is(err, smoke.ErrChecksFailed), convey.ShouldBeTrue)
			})
		})
	})
}
