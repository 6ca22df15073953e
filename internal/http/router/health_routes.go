package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// registerHealthRoutes registra /healthz, /readyz y /metrics.
func registerHealthRoutes(r chi.Router, deps Deps) {
	r.Get("/healthz", deps.Health.Live)
	r.Get("/readyz", deps.Health.Ready)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
}
