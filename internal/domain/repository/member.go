package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

// Member representa una cuenta del sistema.
type Member struct {
	ID           string
	Email        string
	Username     string
	PasswordHash *string // nil para cuentas creadas solo vía OAuth
	Address      string
	Phone        string
	ProfileImage string
	Provider     types.Provider
	Role         types.Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// HasPassword indica si la cuenta puede autenticarse con password.
func (m *Member) HasPassword() bool {
	return m.PasswordHash != nil && *m.PasswordHash != ""
}

// CreateMemberInput contiene los datos para crear una cuenta.
type CreateMemberInput struct {
	Email        string
	Username     string
	PasswordHash *string
	Address      string
	Phone        string
	ProfileImage string
	Provider     types.Provider
	Role         types.Role
}

// MemberRepository define operaciones sobre cuentas.
type MemberRepository interface {
	// GetByID busca una cuenta por ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Member, error)

	// GetByEmail busca una cuenta por email (normalizado).
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*Member, error)

	// Create crea una cuenta activa.
	// Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateMemberInput) (*Member, error)

	// CreateWithIdentity crea la cuenta y su identidad de provider en una sola
	// transacción. Retorna ErrConflict si el email o el par (provider, providerID)
	// ya existen; en ese caso no queda nada persistido.
	CreateWithIdentity(ctx context.Context, input CreateMemberInput, identity CreateIdentityInput) (*Member, error)

	// TouchLastLogin actualiza last_login_at y updated_at.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// SetActive activa o desactiva una cuenta.
	// Retorna ErrNotFound si no existe.
	SetActive(ctx context.Context, id string, active bool) error
}
