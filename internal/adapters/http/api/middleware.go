package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/okian/geosim/pkg/logger"
	"github.com/okian/geosim/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest      = 400
	statusNotFound        = 404
	statusTooManyRequests = 429
	statusInternalError   = 500

	// HeaderRequestID carries the request correlation id.
	HeaderRequestID = "X-Request-ID"

	maxRequestIDLen = 128
)

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by RequestIDMiddleware, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware propagates X-Request-ID or assigns a fresh UUID.
func RequestIDMiddleware() Middleware {
	return func(next http.HandlerFunc, _ string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		}
	}
}

// MetricsMiddleware records request counts, latency and errors per endpoint.
func MetricsMiddleware(clock clockwork.Clock) Middleware {
	return func(next http.HandlerFunc, endpoint string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := clock.Now()
			metrics.AddInFlight(1)
			defer metrics.AddInFlight(-1)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			durationMs := float64(clock.Since(start).Microseconds()) / 1000
			statusCodeStr := strconv.Itoa(wrapped.statusCode)

			metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
			metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

			if wrapped.statusCode >= statusBadRequest {
				errorType := getErrorType(wrapped.statusCode)
				metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
				metrics.RecordErrorByType(errorType, getErrorSeverity(wrapped.statusCode))
			}
		}
	}
}

// LoggingMiddleware writes one access log record per request.
func LoggingMiddleware(log logger.Logger, clock clockwork.Clock) Middleware {
	return func(next http.HandlerFunc, endpoint string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := clock.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			ctx := r.Context()
			fields := []logger.Field{
				logger.String("endpoint", endpoint),
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", wrapped.statusCode),
				logger.Duration("duration", clock.Since(start)),
				logger.String("request_id", RequestIDFromContext(ctx)),
			}
			switch {
			case wrapped.statusCode >= statusInternalError:
				log.Error(ctx, "request failed", fields...)
			case wrapped.statusCode >= statusBadRequest:
				log.Warn(ctx, "request rejected", fields...)
			default:
				log.Debug(ctx, "request served", fields...)
			}
		}
	}
}

// RateLimitMiddleware rejects requests with 429 once limiter is exhausted.
// A nil limiter disables limiting.
func RateLimitMiddleware(limiter *rate.Limiter) Middleware {
	return func(next http.HandlerFunc, endpoint string) http.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				metrics.RecordRateLimited(endpoint)
				w.Header().Set("Retry-After", "1")
				WriteError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusTooManyRequests:
		return "rate_limit"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// getErrorSeverity returns error severity based on HTTP status code.
func getErrorSeverity(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "high"
	case statusCode >= statusBadRequest:
		return "medium"
	default:
		return "low"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
