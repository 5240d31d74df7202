// Package app assembles a geosim service into a runnable HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/okian/geosim/internal/adapters/http/api"
	"github.com/okian/geosim/internal/adapters/http/swagger"
	"github.com/okian/geosim/internal/config"
	"github.com/okian/geosim/pkg/logger"
	"github.com/okian/geosim/pkg/metrics"
)

const readHeaderTimeout = 5 * time.Second

// Server serves one geosim service.
type Server struct {
	service config.Service
	version string
	cfg     *config.Config
	logger  logger.Logger
	clock   clockwork.Clock
	limiter *rate.Limiter

	mux *http.ServeMux
	srv *http.Server
}

// New wires routes for service behind the middleware chain described by cfg.
// Business routes get request ids, metrics, access logs and rate limiting;
// system and docs routes skip rate limiting and access logs.
func New(ctx context.Context, service config.Service, version string, cfg *config.Config, routes []api.Route, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}

	s := &Server{
		service: service,
		version: version,
		cfg:     cfg,
		logger:  logger.Discard(),
		clock:   clockwork.NewRealClock(),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil && cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	docs, err := swagger.Routes(string(service))
	if err != nil {
		return nil, err
	}

	api.Register(ctx, s.mux, routes,
		api.RequestIDMiddleware(),
		api.MetricsMiddleware(s.clock),
		api.LoggingMiddleware(s.logger, s.clock),
		api.RateLimitMiddleware(s.limiter),
	)
	api.Register(ctx, s.mux, append(api.SystemRoutes(string(service)), docs...),
		api.RequestIDMiddleware(),
		api.MetricsMiddleware(s.clock),
	)

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.mux,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	metrics.SetServiceInfo(string(service), version, cfg.ClientName)
	return s, nil
}

// Handler returns the routed handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on the configured address and blocks until ctx is cancelled,
// then drains connections within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting HTTP server",
			logger.String("service", string(s.service)),
			logger.String("version", s.version),
			logger.String("addr", ln.Addr().String()),
		)
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "server shutdown failed", logger.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	s.logger.Info(ctx, "server stopped")
	return nil
}
