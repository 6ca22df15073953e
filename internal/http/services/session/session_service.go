package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/taskflow/internal/audit"
	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/http/services/social"
	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
	"github.com/dropDatabas3/taskflow/internal/metrics"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
	tokens "github.com/dropDatabas3/taskflow/internal/security/token"
)

func (s *sessionService) Login(ctx context.Context, email, password string) (*Result, error) {
	m, err := s.deps.Auth.Authenticate(ctx, email, password)
	if err == nil {
		res, err := s.establish(ctx, m, true)
		s.recordLogin(ctx, types.ProviderLocal, email, err)
		return res, err
	}
	s.recordLogin(ctx, types.ProviderLocal, email, err)
	return nil, err
}

func (s *sessionService) FederatedLogin(ctx context.Context, provider types.Provider, code, state string) (*Result, error) {
	m, err := s.deps.Social.Authenticate(ctx, provider, code, state)
	if err == nil {
		res, err := s.establish(ctx, m, true)
		s.recordLogin(ctx, provider, m.Email, err)
		return res, err
	}
	s.recordLogin(ctx, provider, "", err)
	return nil, err
}

func (s *sessionService) recordLogin(ctx context.Context, provider types.Provider, email string, err error) {
	s.deps.Metrics.RecordLogin(provider.Slug(), loginResult(err))
	if err != nil {
		audit.Log(ctx, audit.EventLoginFailed,
			logger.Provider(provider.Slug()), logger.Email(email), logger.Err(err))
		return
	}
	audit.Log(ctx, audit.EventLoginSucceeded, logger.Provider(provider.Slug()), logger.Email(email))
}

// establish es la secuencia común post-autenticación: emite access + refresh,
// en logins marca last-login y guarda el hash del refresh (reemplazando el anterior).
func (s *sessionService) establish(ctx context.Context, m *repository.Member, touch bool) (*Result, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("session"),
		logger.Op("establish"),
		logger.MemberID(m.ID),
	)

	sub := jwtx.Subject{Username: m.Username, Email: m.Email, Role: m.Role}
	access, accessExp, err := s.deps.Tokens.IssueAccessToken(sub)
	if err != nil {
		return nil, fmt.Errorf("session: issue access token: %w", err)
	}
	refresh, refreshExp, err := s.deps.Tokens.IssueRefreshToken(sub)
	if err != nil {
		return nil, fmt.Errorf("session: issue refresh token: %w", err)
	}

	now := s.deps.Now().UTC()
	// last-login antes del upsert: si falla, la sesión anterior sigue intacta.
	if touch {
		if err := s.deps.Members.TouchLastLogin(ctx, m.ID, now); err != nil {
			log.Error("touch last login failed", logger.Err(err))
			return nil, fmt.Errorf("session: touch last login: %w", err)
		}
	}

	if err := s.deps.RefreshTokens.Upsert(ctx, repository.RefreshToken{
		MemberID:  m.ID,
		TokenHash: tokens.SHA256Base64URL(refresh),
		IssuedAt:  now,
		ExpiresAt: refreshExp,
	}); err != nil {
		log.Error("refresh token upsert failed", logger.Err(err))
		return nil, fmt.Errorf("session: store refresh token: %w", err)
	}

	log.Info("session established", logger.Role(string(m.Role)))
	return &Result{
		Member:           m,
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh valida el refresh token contra el registro guardado y rota ambos tokens.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	res, err := s.refresh(ctx, refreshToken)
	s.deps.Metrics.RecordRefresh(loginResult(err))
	return res, err
}

func (s *sessionService) refresh(ctx context.Context, refreshToken string) (*Result, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("session"),
		logger.Op("Refresh"),
	)

	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	claims, err := s.deps.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", logger.Err(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	m, err := s.deps.Members.GetByEmail(ctx, claims.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("session: lookup member: %w", err)
	}
	log = log.With(logger.MemberID(m.ID))

	rec, err := s.deps.RefreshTokens.GetByMember(ctx, m.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Info("refresh token revoked")
			return nil, ErrRefreshTokenRevoked
		}
		return nil, fmt.Errorf("session: lookup refresh token: %w", err)
	}
	if !tokens.EqualHash(rec.TokenHash, tokens.SHA256Base64URL(refreshToken)) {
		audit.Log(ctx, audit.EventRefreshReused, logger.MemberID(m.ID))
		return nil, ErrRefreshTokenSuperseded
	}
	if !s.deps.Now().Before(rec.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}
	if !m.Active {
		return nil, auth.ErrAccountDisabled
	}

	res, err := s.establish(ctx, m, false)
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventRefreshRotated, logger.MemberID(m.ID))
	return res, nil
}

func (s *sessionService) Logout(ctx context.Context, bearer string) (bool, error) {
	revoked, err := s.logout(ctx, bearer)
	if err == nil {
		s.deps.Metrics.RecordLogout(revoked)
	}
	return revoked, err
}

func (s *sessionService) logout(ctx context.Context, bearer string) (bool, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("session"),
		logger.Op("Logout"),
	)

	if bearer == "" {
		return false, nil
	}
	claims, err := s.deps.Tokens.VerifyAccess(bearer)
	if err != nil {
		log.Debug("logout with unusable bearer", logger.Err(err))
		return false, nil
	}

	m, err := s.deps.Members.GetByEmail(ctx, claims.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		log.Error("member lookup failed", logger.Err(err))
		return false, fmt.Errorf("session: lookup member: %w", err)
	}

	if err := s.Revoke(ctx, m.ID); err != nil {
		return false, err
	}
	audit.Log(ctx, audit.EventLogout, logger.MemberID(m.ID))
	return true, nil
}

func (s *sessionService) Revoke(ctx context.Context, memberID string) error {
	if err := s.deps.RefreshTokens.Delete(ctx, memberID); err != nil {
		logger.From(ctx).Error("refresh token delete failed",
			logger.Component("session"), logger.MemberID(memberID), logger.Err(err))
		return fmt.Errorf("session: revoke: %w", err)
	}
	return nil
}

// loginResult clasifica el error para las métricas.
func loginResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, repository.ErrStoreUnavailable),
		errors.Is(err, social.ErrProviderProfileUnavailable):
		return metrics.ResultError
	default:
		return metrics.ResultFailure
	}
}
