package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/taskflow/internal/http/middlewares"
)

// registerOAuthRoutes registra POST /oauth/{provider}/callback.
func registerOAuthRoutes(r chi.Router, deps Deps) {
	r.Route("/oauth", func(r chi.Router) {
		r.Use(mw.WithNoStore())
		r.Use(limited(deps, "oauth", deps.Limiters.OAuth))

		r.Post("/{provider}/callback", deps.Callback.Callback)
	})
}
