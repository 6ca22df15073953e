package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
	"github.com/dropDatabas3/taskflow/internal/security/password"
)

// Register valida y crea una cuenta LOCAL con rol USER.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*repository.Member, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	in.Email = NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Email == "" || in.Password == "" || in.Username == "" {
		return nil, ErrMissingFields
	}
	if !validEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if ok, reasons := s.deps.Policy.Validate(in.Password); !ok {
		log.Debug("password rejected by policy", logger.Any("reasons", reasons))
		return nil, &PolicyError{Reasons: reasons}
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, &PolicyError{Reasons: []string{"too_long"}}
		}
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	m, err := s.deps.Members.Create(ctx, repository.CreateMemberInput{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: &hash,
		Address:      in.Address,
		Phone:        in.Phone,
		Provider:     types.ProviderLocal,
		Role:         types.RoleUser,
	})
	if err != nil {
		if repository.IsConflict(err) {
			log.Debug("email already registered")
			return nil, ErrEmailTaken
		}
		log.Error("create member failed", logger.Err(err))
		return nil, fmt.Errorf("auth: create member: %w", err)
	}

	log.Info("member registered", logger.MemberID(m.ID))
	return m, nil
}

// validEmail exige una dirección simple (sin display name) con dominio.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && at < len(s)-1
}
