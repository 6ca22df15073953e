// Package session emite y rota la sesión de una cuenta autenticada: access token
// (bearer), refresh token (cookie HttpOnly) y el registro revocable del refresh.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/http/services/social"
	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
	"github.com/dropDatabas3/taskflow/internal/metrics"
)

// SessionService orquesta login, refresh y logout.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*Result, error)
	FederatedLogin(ctx context.Context, provider types.Provider, code, state string) (*Result, error)
	Refresh(ctx context.Context, refreshToken string) (*Result, error)
	// Logout revoca el refresh de la cuenta del bearer. Bearer ausente o inválido
	// no es error: devuelve revoked=false.
	Logout(ctx context.Context, bearer string) (revoked bool, err error)
	// Revoke elimina el refresh vigente de la cuenta.
	Revoke(ctx context.Context, memberID string) error

	RefreshCookie(token string, expiresAt time.Time) *http.Cookie
	ClearCookie() *http.Cookie
}

// Result es lo que devuelve un login o refresh exitoso.
type Result struct {
	Member           *repository.Member
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

var (
	ErrInvalidRefreshToken    = errors.New("invalid refresh token")
	ErrRefreshTokenRevoked    = errors.New("refresh token revoked")
	ErrRefreshTokenSuperseded = errors.New("refresh token superseded by a newer one")
)

// CookieConfig define la cookie del refresh token.
type CookieConfig struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// Deps contiene las dependencias del service.
type Deps struct {
	Auth          auth.AuthService
	Social        social.SocialService
	Members       repository.MemberRepository
	RefreshTokens repository.RefreshTokenRepository
	Tokens        *jwtx.Service
	Cookie        CookieConfig
	Metrics       *metrics.Metrics // nil = sin métricas
	Now           func() time.Time
}

type sessionService struct {
	deps Deps
}

// NewSessionService crea el service.
func NewSessionService(deps Deps) SessionService {
	if deps.Cookie.Name == "" {
		deps.Cookie.Name = "refreshToken"
	}
	if deps.Cookie.SameSite == 0 {
		deps.Cookie.SameSite = http.SameSiteLaxMode
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &sessionService{deps: deps}
}
