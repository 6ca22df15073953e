// Package router arma el árbol de rutas chi y la cadena de middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/taskflow/internal/http/controllers/admin"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/health"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/member"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/oauth"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/token"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	mw "github.com/dropDatabas3/taskflow/internal/http/middlewares"
	"github.com/dropDatabas3/taskflow/internal/metrics"
	"github.com/dropDatabas3/taskflow/internal/rate"
)

// Limiters son los rate limiters por grupo de rutas. nil = sin límite.
type Limiters struct {
	Login    rate.Limiter
	Register rate.Limiter
	OAuth    rate.Limiter
	Refresh  rate.Limiter
}

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Member   *member.Controllers
	Callback *oauth.CallbackController
	Refresh  *token.RefreshController
	Status   *admin.StatusController
	Health   *health.HealthController

	Gate        *mw.Gate
	Metrics     *metrics.Metrics
	Limiters    Limiters
	CORSOrigins []string
	// TrustedProxies habilita X-Forwarded-For/X-Real-IP para la IP del cliente.
	TrustedProxies helpers.TrustedProxies
}

// New construye el handler raíz.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(deps.TrustedProxies),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(deps.CORSOrigins),
		deps.Metrics.Middleware,
		mw.WithAuthentication(deps.Gate),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, deps)
	registerMemberRoutes(r, deps)
	registerAuthRoutes(r, deps)
	registerOAuthRoutes(r, deps)
	registerAdminRoutes(r, deps)

	return r
}

// limited aplica el rate limit del grupo de rutas.
func limited(deps Deps, bucket string, l rate.Limiter) func(http.Handler) http.Handler {
	return mw.WithRateLimit(mw.RateLimitConfig{
		Limiter: l,
		Bucket:  bucket,
		KeyFunc: mw.ClientIPRateKey(deps.TrustedProxies),
		Metrics: deps.Metrics,
	})
}
