// Package smoke verifies a running geosim service against its documented behaviour.
package smoke

import (
	"errors"
	"time"
)

// Errors reported by Run.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrChecksFailed = errors.New("smoke checks failed")
	ErrBadConfig    = errors.New("invalid smoke config")
)

// Default configuration values.
const (
	DefaultChecks  = 200
	DefaultWorkers = 8
	DefaultTimeout = 5 * time.Second

	workerChannelMultiplier = 2
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service, e.g. http://localhost:81
	Service string        // "simulation" or "spatial"
	Client  string        // Expected configured client; banner checks are skipped when empty
	Bucket  string        // Expected s3_bucket (spatial); banner check skipped when empty
	Checks  int           // Number of randomized calculate checks (simulation)
	Workers int           // Concurrent workers
	Timeout time.Duration // Per-request timeout
	Seed    int64         // Seed for generated weights
}

// Stats summarises a smoke run.
type Stats struct {
	Passed   int
	Failed   int
	Failures []string
	Duration time.Duration
}
