package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/taskflow/internal/http/middlewares"
)

// registerMemberRoutes registra /member/*.
func registerMemberRoutes(r chi.Router, deps Deps) {
	c := deps.Member

	r.Route("/member", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.With(limited(deps, "register", deps.Limiters.Register)).Post("/register", c.Register.Register)
		r.With(limited(deps, "login", deps.Limiters.Login)).Post("/login", c.Login.Login)
		r.Post("/logout", c.Logout.Logout)
		r.With(mw.RequireAuthenticated()).Get("/profile", c.Profile.Profile)
	})
}

// registerAuthRoutes registra /auth/* (refresh y logout).
func registerAuthRoutes(r chi.Router, deps Deps) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.With(limited(deps, "refresh", deps.Limiters.Refresh)).Post("/refresh", deps.Refresh.Refresh)
		r.Post("/logout", deps.Member.Logout.Logout)
	})
}
