package memory

import (
	"context"
	"sort"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

type identityRepo struct{ c *Conn }

func (r *identityRepo) GetByProvider(_ context.Context, provider types.Provider, providerID string) (*repository.ProviderIdentity, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	identity, ok := r.c.identities[identityKey{provider: provider, providerID: providerID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &identity, nil
}

func (r *identityRepo) ListByMember(_ context.Context, memberID string) ([]repository.ProviderIdentity, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	var out []repository.ProviderIdentity
	for _, identity := range r.c.identities {
		if identity.MemberID == memberID {
			out = append(out, identity)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
