// Package providers define el sistema de login delegado (OAuth2 authorization code).
//
// Arquitectura:
//   - Provider: interfaz común (exchange del code + perfil del usuario)
//   - Registry: providers habilitados por configuración
//   - Implementaciones: un sub-paquete por provider (google, naver, kakao)
//
// Los fallos upstream se tipan (*UpstreamError) para distinguir un code rechazado
// (ErrUpstreamRejected) de un fallo de red o del provider.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

// Provider define la interfaz que implementa cada provider de login social.
type Provider interface {
	Name() types.Provider
	// RequiresState indica si el provider exige el parámetro state en el exchange.
	RequiresState() bool
	Exchange(ctx context.Context, code, state string) (*TokenSet, error)
	UserInfo(ctx context.Context, accessToken string) (*UserProfile, error)
}

// Config es la configuración de una instancia de provider.
// TokenURL/UserInfoURL vacíos usan los endpoints públicos.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	TokenURL     string
	UserInfoURL  string
	HTTPClient   *http.Client
}

// TokenSet contiene los tokens recibidos del provider.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// UserProfile es el perfil normalizado de cualquier provider.
type UserProfile struct {
	ProviderID string
	Email      string
	Name       string
	Picture    string
}

var (
	// ErrUpstreamRejected: el provider rechazó el code (4xx o error OAuth en el body).
	ErrUpstreamRejected = errors.New("providers: upstream rejected the request")
	// ErrExchangeFailed envuelve cualquier fallo del paso token.
	ErrExchangeFailed = errors.New("providers: code exchange failed")
	// ErrProfileFailed envuelve cualquier fallo del paso userinfo.
	ErrProfileFailed = errors.New("providers: profile unavailable")
	// ErrProfileIncomplete: el perfil no trae subject o email.
	ErrProfileIncomplete = errors.New("providers: profile lacks subject or email")
)

// UpstreamError describe un fallo al hablar con el provider.
// Status 0 indica un error de transporte (timeout, DNS, conexión).
type UpstreamError struct {
	Provider    types.Provider
	Op          string // "token" | "userinfo"
	Status      int
	Code        string // "error" OAuth, si vino
	Description string
	Err         error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Provider.Slug(), e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": http %d", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, ": %s", e.Code)
		if e.Description != "" {
			fmt.Fprintf(&b, " (%s)", e.Description)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Rejected indica que el provider respondió y rechazó la operación.
func (e *UpstreamError) Rejected() bool {
	return e.Code != "" || (e.Status >= 400 && e.Status < 500)
}

// Is permite errors.Is(err, ErrUpstreamRejected).
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamRejected && e.Rejected()
}

// ExchangeAndFetchProfile compone Exchange + UserInfo y valida el perfil.
// Los errores quedan envueltos en ErrExchangeFailed o ErrProfileFailed.
func ExchangeAndFetchProfile(ctx context.Context, p Provider, code, state string) (*UserProfile, error) {
	ts, err := p.Exchange(ctx, code, state)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if ts == nil || ts.AccessToken == "" {
		return nil, fmt.Errorf("%w: %s returned no access token", ErrExchangeFailed, p.Name().Slug())
	}

	prof, err := p.UserInfo(ctx, ts.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFailed, err)
	}
	if prof == nil || strings.TrimSpace(prof.ProviderID) == "" || strings.TrimSpace(prof.Email) == "" {
		return nil, fmt.Errorf("%w: %w", ErrProfileFailed, ErrProfileIncomplete)
	}
	prof.Email = strings.ToLower(strings.TrimSpace(prof.Email))
	return prof, nil
}

// NewHTTPClient construye el cliente saliente compartido: timeout fijo, sin reintentos.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
