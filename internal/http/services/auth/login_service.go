package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// Authenticate verifica email + password.
//
// Cuenta inexistente y password incorrecto devuelven el mismo error, y en ambos
// casos se ejecuta una comparación bcrypt para no filtrar por tiempo de respuesta.
func (s *authService) Authenticate(ctx context.Context, email, pwd string) (*repository.Member, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Authenticate"),
	)

	email = NormalizeEmail(email)
	if email == "" || pwd == "" {
		s.deps.Hasher.VerifyDummy(pwd)
		return nil, ErrInvalidCredentials
	}

	m, err := s.deps.Members.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			s.deps.Hasher.VerifyDummy(pwd)
			log.Debug("member not found")
			return nil, ErrInvalidCredentials
		}
		log.Error("member lookup failed", logger.Err(err))
		return nil, fmt.Errorf("auth: lookup member: %w", err)
	}

	log = log.With(logger.MemberID(m.ID))

	if !m.HasPassword() {
		s.deps.Hasher.VerifyDummy(pwd)
		log.Debug("member has no password (federated account)")
		return nil, ErrInvalidCredentials
	}
	if !s.deps.Hasher.Verify(*m.PasswordHash, pwd) {
		log.Debug("password check failed")
		return nil, ErrInvalidCredentials
	}

	if !m.Active {
		log.Info("member disabled")
		return nil, ErrAccountDisabled
	}
	return m, nil
}

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
