package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/geosim/pkg/metrics"
)

// SystemRoutes returns the liveness, readiness and metrics routes of service.
func SystemRoutes(service string) []Route {
	return []Route{
		{Path: "/healthz", Name: "healthz", Handler: handleHealth},
		{Path: "/readyz", Name: "readyz", Handler: handleReady(service)},
		{Path: "/metrics", Name: "metrics", Handler: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP},
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// The services hold no dependencies, so readiness follows liveness.
func handleReady(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready", "service": service})
	}
}
