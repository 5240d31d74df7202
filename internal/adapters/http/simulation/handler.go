// Package simulation exposes the Simulation Service over HTTP.
package simulation

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/geosim/internal/adapters/http/api"
	simdomain "github.com/okian/geosim/internal/domain/simulation"
	"github.com/okian/geosim/pkg/logger"
	"github.com/okian/geosim/pkg/metrics"
)

// Handler serves the Simulation Service routes for one configured client.
type Handler struct {
	client string
	log    logger.Logger
}

// NewHandler creates a handler bound to the configured client tag.
func NewHandler(client string, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{client: client, log: log}
}

// Routes returns the service route table.
func (h *Handler) Routes() []api.Route {
	return []api.Route{
		{Method: http.MethodGet, Path: "/", Name: "root", Handler: h.HandleRoot},
		{Method: http.MethodGet, Path: "/calculate", Name: "calculate", Handler: h.HandleCalculate},
	}
}

// HandleRoot handles GET / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	api.WriteText(w, http.StatusOK, simdomain.Banner(h.client))
}

// HandleCalculate handles GET /calculate?weight=<W>&client=<C> requests.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := simdomain.ParseRequest(q.Get("weight"), q.Get("client"))
	if err != nil {
		var verr *simdomain.ValidationError
		if errors.As(err, &verr) {
			h.log.Debug(r.Context(), "calculate rejected",
				logger.String("param", verr.Param),
				logger.String("request_id", api.RequestIDFromContext(r.Context())),
			)
			api.WriteError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", api.ErrBadRequest, err))
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	multiplier := simdomain.Multiplier(req.Client)
	metrics.RecordCalculation(strconv.FormatFloat(multiplier, 'f', -1, 64))
	api.WriteText(w, http.StatusOK, simdomain.FormatResult(simdomain.Calculate(req)))
}
