package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

type memberRepo struct{ c *Conn }

func (r *memberRepo) GetByID(_ context.Context, id string) (*repository.Member, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	m, ok := r.c.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(m), nil
}

func (r *memberRepo) GetByEmail(_ context.Context, email string) (*repository.Member, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	id, ok := r.c.byEmail[normEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(r.c.members[id]), nil
}

func (r *memberRepo) Create(_ context.Context, input repository.CreateMemberInput) (*repository.Member, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if _, taken := r.c.byEmail[normEmail(input.Email)]; taken {
		return nil, repository.ErrConflict
	}
	return clone(r.c.insertLocked(input)), nil
}

func (r *memberRepo) CreateWithIdentity(_ context.Context, input repository.CreateMemberInput, identity repository.CreateIdentityInput) (*repository.Member, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if _, taken := r.c.byEmail[normEmail(input.Email)]; taken {
		return nil, repository.ErrConflict
	}
	key := identityKey{provider: identity.Provider, providerID: identity.ProviderID}
	if _, taken := r.c.identities[key]; taken {
		return nil, repository.ErrConflict
	}

	m := r.c.insertLocked(input)
	r.c.identities[key] = repository.ProviderIdentity{
		Provider:   identity.Provider,
		ProviderID: identity.ProviderID,
		MemberID:   m.ID,
		CreatedAt:  m.CreatedAt,
	}
	return clone(m), nil
}

func (r *memberRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	m, ok := r.c.members[id]
	if !ok {
		return repository.ErrNotFound
	}
	at = at.UTC()
	m.LastLoginAt = &at
	m.UpdatedAt = at
	return nil
}

func (r *memberRepo) SetActive(_ context.Context, id string, active bool) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	m, ok := r.c.members[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Active = active
	m.UpdatedAt = r.c.now().UTC()
	return nil
}

// insertLocked requiere c.mu tomado en escritura.
func (c *Conn) insertLocked(in repository.CreateMemberInput) *repository.Member {
	now := c.now().UTC()
	m := &repository.Member{
		ID:           uuid.NewString(),
		Email:        normEmail(in.Email),
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Address:      in.Address,
		Phone:        in.Phone,
		ProfileImage: in.ProfileImage,
		Provider:     in.Provider,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if m.Provider == "" {
		m.Provider = types.ProviderLocal
	}
	if m.Role == "" {
		m.Role = types.RoleUser
	}
	c.members[m.ID] = m
	c.byEmail[m.Email] = m.ID
	return clone(m)
}
