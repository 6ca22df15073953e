// Package member expone las operaciones sobre la cuenta fuera del login:
// perfil del usuario autenticado y activación/desactivación administrativa.
package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/audit"
	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// MemberService opera sobre cuentas existentes.
type MemberService interface {
	// Profile retorna la cuenta identificada por el email del token.
	Profile(ctx context.Context, email string) (*repository.Member, error)
	// SetActive cambia el estado de la cuenta. Desactivar revoca su refresh token.
	SetActive(ctx context.Context, id string, active bool) (*repository.Member, error)
}

var ErrMemberNotFound = errors.New("member not found")

// Revoker elimina la sesión renovable de una cuenta.
type Revoker interface {
	Revoke(ctx context.Context, memberID string) error
}

// Deps contiene las dependencias del service.
type Deps struct {
	Members  repository.MemberRepository
	Sessions Revoker
}

type memberService struct {
	deps Deps
}

// NewMemberService crea el service.
func NewMemberService(deps Deps) MemberService {
	return &memberService{deps: deps}
}

func (s *memberService) Profile(ctx context.Context, email string) (*repository.Member, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMemberNotFound
	}
	m, err := s.deps.Members.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("member: profile: %w", err)
	}
	return m, nil
}

func (s *memberService) SetActive(ctx context.Context, id string, active bool) (*repository.Member, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("member"),
		logger.Op("SetActive"),
		logger.MemberID(id),
	)

	if err := s.deps.Members.SetActive(ctx, id, active); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("member: set active: %w", err)
	}

	if !active && s.deps.Sessions != nil {
		if err := s.deps.Sessions.Revoke(ctx, id); err != nil {
			log.Error("revoke on deactivation failed", logger.Err(err))
			return nil, err
		}
	}

	m, err := s.deps.Members.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("member: reload: %w", err)
	}
	event := audit.EventMemberReactivated
	if !active {
		event = audit.EventMemberDeactivated
	}
	audit.Log(ctx, event, logger.MemberID(id))
	return m, nil
}
