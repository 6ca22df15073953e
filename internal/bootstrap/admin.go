// Package bootstrap crea la primera cuenta ADMIN.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/audit"
	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
	"github.com/dropDatabas3/taskflow/internal/security/password"
)

// ErrNotAdmin indica que el email ya pertenece a una cuenta que no es ADMIN.
var ErrNotAdmin = errors.New("bootstrap: email belongs to a non-admin member")

// AdminConfig son los datos de la cuenta a crear.
type AdminConfig struct {
	Members  repository.MemberRepository
	Hasher   *password.Hasher
	Policy   password.Policy
	Email    string
	Password string
	Username string
}

// EnsureAdmin crea la cuenta ADMIN si el email no existe.
// Es idempotente: si ya existe como ADMIN devuelve esa cuenta y created=false.
func EnsureAdmin(ctx context.Context, cfg AdminConfig) (m *repository.Member, created bool, err error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || cfg.Password == "" {
		return nil, false, errors.New("bootstrap: email and password required")
	}

	existing, err := cfg.Members.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != types.RoleAdmin {
			return nil, false, ErrNotAdmin
		}
		return existing, false, nil
	case !repository.IsNotFound(err):
		return nil, false, fmt.Errorf("bootstrap: lookup: %w", err)
	}

	if ok, reasons := cfg.Policy.Validate(cfg.Password); !ok {
		return nil, false, fmt.Errorf("bootstrap: weak password: %s", strings.Join(reasons, ","))
	}
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = password.NewHasher(0)
	}
	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap: hash: %w", err)
	}

	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = "admin"
	}
	m, err = cfg.Members.Create(ctx, repository.CreateMemberInput{
		Email:        email,
		Username:     username,
		PasswordHash: &hash,
		Provider:     types.ProviderLocal,
		Role:         types.RoleAdmin,
	})
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap: create: %w", err)
	}
	audit.Log(ctx, audit.EventAdminBootstrapped, logger.MemberID(m.ID), logger.Email(email))
	return m, true, nil
}
