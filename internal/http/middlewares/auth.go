package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// =================================================================================
// REQUEST GATE
// =================================================================================

// AccessVerifier verifica access tokens. *jwt.Service lo implementa.
type AccessVerifier interface {
	VerifyAccess(raw string) (*jwtx.Claims, error)
}

// Identity es el contexto de seguridad de un request autenticado.
type Identity struct {
	Subject     string
	Email       string
	Role        types.Role
	Authorities []string
}

// HasRole indica si la identidad tiene el rol dado.
func (i *Identity) HasRole(role types.Role) bool {
	return i != nil && i.Role == role
}

// Gate decide, sin efectos laterales, quién es el llamante de un request.
type Gate struct {
	Verifier AccessVerifier
	// PublicPrefixes se comparan por segmentos: "/oauth/google" cubre
	// "/oauth/google/callback" pero no "/oauth/googlex".
	PublicPrefixes []string
}

// NewGate normaliza los prefijos (sin "/" final, vacíos descartados).
func NewGate(v AccessVerifier, publicPrefixes []string) *Gate {
	prefixes := make([]string, 0, len(publicPrefixes))
	for _, p := range publicPrefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p != "/" {
			p = strings.TrimRight(p, "/")
		}
		prefixes = append(prefixes, p)
	}
	return &Gate{Verifier: v, PublicPrefixes: prefixes}
}

// IsPublic reporta si path cae bajo algún prefijo público.
func (g *Gate) IsPublic(path string) bool {
	for _, p := range g.PublicPrefixes {
		if p == "/" || path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Identify resuelve la identidad del request. Devuelve false si la ruta es pública,
// no hay bearer, o el token no es un access token válido.
func (g *Gate) Identify(r *http.Request) (*Identity, bool) {
	if g.IsPublic(r.URL.Path) {
		return nil, false
	}
	raw := helpers.BearerToken(r)
	if raw == "" || g.Verifier == nil {
		return nil, false
	}
	claims, err := g.Verifier.VerifyAccess(raw)
	if err != nil {
		logger.From(r.Context()).Debug("bearer rejected",
			logger.Layer("middleware"), logger.Component("gate"), logger.Err(err))
		return nil, false
	}
	return identityFromClaims(claims), true
}

func identityFromClaims(c *jwtx.Claims) *Identity {
	role := c.RoleValue()
	id := &Identity{
		Subject: c.Username(),
		Email:   c.Email,
		Role:    role,
	}
	if role.IsValid() {
		id.Authorities = []string{role.Authority()}
	}
	return id
}

// WithAuthentication adjunta la identidad al contexto cuando el bearer es válido.
// Nunca corta el request: la autorización la deciden RequireAuthenticated/RequireRole.
func WithAuthentication(g *Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := g.Identify(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithIdentity(r.Context(), id)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.Email(id.Email)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated responde 401 si no hay identidad en el contexto.
func RequireAuthenticated() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetIdentity(r.Context()) == nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole responde 401 sin identidad y 403 si el rol no coincide.
func RequireRole(role types.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetIdentity(r.Context())
			if id == nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if !id.HasRole(role) {
				httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
