// Package spatial exposes the Spatial Service over HTTP.
package spatial

import (
	"net/http"

	"github.com/okian/geosim/internal/adapters/http/api"
	spatialdomain "github.com/okian/geosim/internal/domain/spatial"
)

// Handler serves the Spatial Service routes.
type Handler struct {
	client string
	bucket string
}

// NewHandler creates a handler for the configured client and bucket.
func NewHandler(client, bucket string) *Handler {
	return &Handler{client: client, bucket: bucket}
}

// Routes returns the service route table.
func (h *Handler) Routes() []api.Route {
	return []api.Route{
		{Method: http.MethodGet, Path: "/", Name: "root", Handler: h.HandleRoot},
		{Method: http.MethodGet, Path: "/service", Name: "service", Handler: h.HandleService},
	}
}

// HandleRoot handles GET / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	api.WriteText(w, http.StatusOK, spatialdomain.Banner(h.client, h.bucket))
}

// HandleService handles GET /service requests. Query parameters are ignored.
func (h *Handler) HandleService(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, spatialdomain.Status(h.client))
}
