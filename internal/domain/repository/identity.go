package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

// ProviderIdentity vincula una identidad externa con una cuenta local.
// El par (Provider, ProviderID) es único y una cuenta tiene a lo sumo
// una identidad por provider.
type ProviderIdentity struct {
	Provider   types.Provider
	ProviderID string
	MemberID   string
	CreatedAt  time.Time
}

// CreateIdentityInput contiene los datos para vincular una identidad.
type CreateIdentityInput struct {
	Provider   types.Provider
	ProviderID string
}

// IdentityRepository define operaciones sobre identidades de provider.
// Las identidades nunca se modifican; se crean junto con la cuenta
// (ver MemberRepository.CreateWithIdentity).
type IdentityRepository interface {
	// GetByProvider busca una identidad por provider y ID del provider.
	// Retorna ErrNotFound si no existe.
	GetByProvider(ctx context.Context, provider types.Provider, providerID string) (*ProviderIdentity, error)

	// ListByMember lista las identidades de una cuenta.
	ListByMember(ctx context.Context, memberID string) ([]ProviderIdentity, error)
}
