package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okian/geosim/internal/domain/simulation"
	"github.com/okian/geosim/internal/domain/spatial"
	"github.com/okian/geosim/pkg/logger"
)

// Run executes every check for cfg.Service against cfg.BaseURL. It returns
// ErrChecksFailed (with Stats populated) when any check fails.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Stats, error) {
	cfg = withDefaults(cfg)
	if cfg.BaseURL == "" {
		return Stats{}, fmt.Errorf("%w: base url is required", ErrBadConfig)
	}
	if log == nil {
		log = logger.Discard()
	}

	start := time.Now()
	client := newHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout)

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("service", cfg.Service),
		logger.Int("checks", cfg.Checks),
		logger.Int("workers", cfg.Workers),
	)

	if err := checkHealth(ctx, client); err != nil {
		return Stats{}, err
	}

	var cases []Case
	switch cfg.Service {
	case "simulation":
		if cfg.Client != "" {
			cases = append(cases, Case{Name: "banner", Path: "/", WantStatus: http.StatusOK, WantBody: simulation.Banner(cfg.Client)})
		}
		cases = append(cases, generateCalculateCases(cfg.Checks, cfg.Seed)...)
	case "spatial":
		if cfg.Client != "" && cfg.Bucket != "" {
			cases = append(cases, Case{Name: "banner", Path: "/", WantStatus: http.StatusOK, WantBody: spatial.Banner(cfg.Client, cfg.Bucket)})
		}
		cases = append(cases, Case{Name: "service payload", Path: "/service", WantStatus: http.StatusOK})
	default:
		return Stats{}, fmt.Errorf("%w: unknown service %q", ErrBadConfig, cfg.Service)
	}

	stats := runCases(ctx, client, cfg, cases)
	stats.Duration = time.Since(start)

	log.Info(ctx, "smoke run completed",
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
	)
	for _, f := range stats.Failures {
		log.Warn(ctx, "check failed", logger.String("detail", f))
	}

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrChecksFailed, stats.Failed, stats.Failed+stats.Passed)
	}
	return stats, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Checks <= 0 {
		cfg.Checks = DefaultChecks
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

func checkHealth(ctx context.Context, client *httpClient) error {
	status, _, _, err := client.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: /healthz returned %d", ErrUnhealthy, status)
	}
	return nil
}

// runCases fans cases out to cfg.Workers goroutines.
func runCases(ctx context.Context, client *httpClient, cfg Config, cases []Case) Stats {
	var (
		mu    sync.Mutex
		stats Stats
		wg    sync.WaitGroup
	)
	caseCh := make(chan Case, cfg.Workers*workerChannelMultiplier)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range caseCh {
				failure := runCase(ctx, client, cfg, c)

				mu.Lock()
				if failure == "" {
					stats.Passed++
				} else {
					stats.Failed++
					stats.Failures = append(stats.Failures, failure)
				}
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(caseCh)
		for _, c := range cases {
			select {
			case <-ctx.Done():
				return
			case caseCh <- c:
			}
		}
	}()

	wg.Wait()
	return stats
}

// runCase returns an empty string on success, otherwise a failure description.
func runCase(ctx context.Context, client *httpClient, cfg Config, c Case) string {
	status, body, id, err := client.get(ctx, c.Path)
	if err != nil {
		return fmt.Sprintf("%s: request %s: %v", c.Name, id, err)
	}
	if status != c.WantStatus {
		return fmt.Sprintf("%s: request %s: status %d, want %d", c.Name, id, status, c.WantStatus)
	}
	if c.WantBody != "" && body != c.WantBody {
		return fmt.Sprintf("%s: request %s: body %q, want %q", c.Name, id, body, c.WantBody)
	}
	if c.Path == "/service" {
		return verifyReport(c.Name, id, body, cfg.Client)
	}
	return ""
}

func verifyReport(name, id, body, client string) string {
	var report spatial.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return fmt.Sprintf("%s: request %s: decode: %v", name, id, err)
	}
	if report.Weight != spatial.ReportWeight {
		return fmt.Sprintf("%s: request %s: weight %d, want %d", name, id, report.Weight, spatial.ReportWeight)
	}
	if client != "" && report.Client != client {
		return fmt.Sprintf("%s: request %s: client %q, want %q", name, id, report.Client, client)
	}
	return ""
}
