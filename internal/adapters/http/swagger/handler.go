// Package swagger serves the embedded OpenAPI documents and a ReDoc page.
package swagger

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/geosim/internal/adapters/http/api"
)

// Error constants.
var (
	ErrUnknownService = errors.New("no API document for service")
)

// Routes returns the documentation routes for service ("simulation" or "spatial").
//
//	GET /openapi.yaml -> embedded OpenAPI document
//	GET /api-docs     -> ReDoc HTML loading /openapi.yaml
func Routes(service string) ([]api.Route, error) {
	var doc []byte
	switch service {
	case "simulation":
		doc = SimulationSpec
	case "spatial":
		doc = SpatialSpec
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}

	return []api.Route{
		{Path: "/openapi.yaml", Name: "openapi", Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
			_, _ = w.Write(doc)
		}},
		{Path: "/api-docs", Name: "api_docs", Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(indexHTML))
		}},
	}, nil
}

// Minimal HTML that loads ReDoc from its CDN and renders /openapi.yaml.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>API Docs - ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
