// Package jwt emite y verifica los access/refresh tokens (HS512).
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

// MinSecretLen es el largo mínimo de la clave HMAC para HS512 (512 bits).
const MinSecretLen = 64

const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// ErrInvalidKey se retorna en construcción si la clave no sirve para HS512.
var ErrInvalidKey = errors.New("jwt: signing secret must be at least 64 bytes")

// Config es la configuración inmutable del servicio.
type Config struct {
	Secret     []byte
	Issuer     string        // "iss"; vacío = no se emite ni se valida
	AccessTTL  time.Duration // default 15m
	RefreshTTL time.Duration // default 7 días
}

// Subject es lo que el servicio necesita saber de una cuenta para firmar.
type Subject struct {
	Username string
	Email    string
	Role     types.Role
}

// Option configura el Service.
type Option func(*Service)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service firma y verifica tokens. Es inmutable y seguro para uso concurrente.
type Service struct {
	key        []byte
	iss        string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwtv5.Parser
}

// NewService valida la config y construye el servicio.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, ErrInvalidKey
	}
	s := &Service{
		key:        append([]byte(nil), cfg.Secret...),
		iss:        cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = 15 * time.Minute
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = 7 * 24 * time.Hour
	}
	for _, o := range opts {
		o(s)
	}

	popts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS512.Alg()}),
		jwtv5.WithTimeFunc(s.now),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithStrictDecoding(),
	}
	if s.iss != "" {
		popts = append(popts, jwtv5.WithIssuer(s.iss))
	}
	s.parser = jwtv5.NewParser(popts...)
	return s, nil
}

// AccessTTL retorna el TTL configurado de los access tokens.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL retorna el TTL configurado de los refresh tokens.
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccessToken firma un access token con sub, email y role.
func (s *Service) IssueAccessToken(sub Subject) (string, time.Time, error) {
	return s.sign(&Claims{
		Email: sub.Email,
		Role:  string(sub.Role),
		Use:   UseAccess,
	}, sub.Username, s.accessTTL)
}

// IssueRefreshToken firma un refresh token. Lleva solo sub y email:
// nada que otorgue permisos.
func (s *Service) IssueRefreshToken(sub Subject) (string, time.Time, error) {
	return s.sign(&Claims{
		Email: sub.Email,
		Use:   UseRefresh,
	}, sub.Username, s.refreshTTL)
}

func (s *Service) sign(c *Claims, subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(ttl)

	c.Subject = subject
	c.Issuer = s.iss
	c.ID = uuid.NewString()
	c.IssuedAt = jwtv5.NewNumericDate(now)
	c.ExpiresAt = jwtv5.NewNumericDate(exp)

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS512, c)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, exp, nil
}
