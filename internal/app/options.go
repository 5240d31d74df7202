package app

import (
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/okian/geosim/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for request timing.
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRateLimiter overrides the limiter derived from the config.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *Server) {
		if l != nil {
			s.limiter = l
		}
	}
}
