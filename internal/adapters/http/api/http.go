// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Route is one entry of a service's route table.
type Route struct {
	// Method defaults to GET when empty.
	Method string
	// Path is matched exactly; "/" does not act as a catch-all.
	Path string
	// Name labels metrics and access logs.
	Name    string
	Handler http.HandlerFunc
}

// Pattern returns the ServeMux pattern for the route.
func (r Route) Pattern() string {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	path := r.Path
	if path == "" || path == "/" {
		path = "/{$}"
	}
	return method + " " + path
}

// Middleware decorates a handler registered under endpoint.
type Middleware func(next http.HandlerFunc, endpoint string) http.HandlerFunc

// Register attaches routes to mux. The first middleware is the outermost.
func Register(_ context.Context, mux *http.ServeMux, routes []Route, mws ...Middleware) {
	if mux == nil {
		panic("mux is nil")
	}
	for _, rt := range routes {
		h := rt.Handler
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h, rt.Name)
		}
		mux.HandleFunc(rt.Pattern(), h)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteText writes a plain text body.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteError writes the JSON error body {"code","message"}.
func WriteError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	WriteJSON(w, status, errorResponse{Code: code, Message: msg})
}
