package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
	mw "github.com/dropDatabas3/taskflow/internal/http/middlewares"
)

// registerAdminRoutes registra el área ADMIN.
func registerAdminRoutes(r chi.Router, deps Deps) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.WithNoStore())
		r.Use(mw.RequireRole(types.RoleAdmin))

		r.Patch("/members/{id}/status", deps.Status.SetStatus)
	})
}
