package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/geosim/internal/adapters/http/api"
	simhttp "github.com/okian/geosim/internal/adapters/http/simulation"
	spatialhttp "github.com/okian/geosim/internal/adapters/http/spatial"
	"github.com/okian/geosim/internal/app"
	"github.com/okian/geosim/internal/config"
	"github.com/okian/geosim/internal/domain/simulation"
	"github.com/okian/geosim/internal/domain/spatial"
	"github.com/okian/geosim/internal/smoke"
	"github.com/okian/geosim/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "geosim",
		Short:         "Simulation and Spatial HTTP services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(config.Simulation, simulation.Version,
			"Serve the Simulation Service (env: client)"),
		newServeCmd(config.Spatial, spatial.Version,
			"Serve the Spatial Service (env: client, s3_bucket)"),
		newSmokeCmd(),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(svc config.Service, version, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(svc),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Load configuration (defaults -> optional file -> env)
			cfg, err := config.Load(ctx, svc)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.OutOrStdout())); err != nil {
				if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.OutOrStdout())); err != nil {
					return fmt.Errorf("failed to initialize logging: %w", err)
				}
				logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
			}
			defer func() { _ = logger.Sync() }()

			log := logger.Get().With(logger.String("service", string(svc)))

			srv, err := app.New(ctx, svc, version, cfg, routesFor(svc, cfg, log), app.WithLogger(log))
			if err != nil {
				return fmt.Errorf("failed to build server: %w", err)
			}
			return srv.Run(ctx)
		},
	}
}

func routesFor(svc config.Service, cfg *config.Config, log logger.Logger) []api.Route {
	switch svc {
	case config.Simulation:
		return simhttp.NewHandler(cfg.ClientName, log.Named("calculate")).Routes()
	case config.Spatial:
		return spatialhttp.NewHandler(cfg.ClientName, cfg.S3Bucket).Routes()
	default:
		return nil
	}
}

func newSmokeCmd() *cobra.Command {
	cfg := smoke.Config{}
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke checks against a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(logger.WithFormat(logger.FormatText), logger.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			stats, err := smoke.Run(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d checks passed in %s\n", stats.Passed, stats.Duration)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:81", "base URL of the service")
	f.StringVar(&cfg.Service, "service", string(config.Simulation), "service kind: simulation or spatial")
	f.StringVar(&cfg.Client, "client", "", "expected client tag; banner checks are skipped when empty")
	f.StringVar(&cfg.Bucket, "bucket", "", "expected s3_bucket (spatial)")
	f.IntVar(&cfg.Checks, "checks", smoke.DefaultChecks, "number of randomized calculate checks")
	f.IntVar(&cfg.Workers, "workers", smoke.DefaultWorkers, "concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", smoke.DefaultTimeout, "per-request timeout")
	f.Int64Var(&cfg.Seed, "seed", 1, "seed for generated weights")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print service versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "simulation %s\n", simulation.Version); err != nil {
				return err
			}
			_, err := fmt.Fprintf(out, "spatial %s\n", spatial.Version)
			return err
		},
	}
}
