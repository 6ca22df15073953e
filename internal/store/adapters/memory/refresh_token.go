package memory

import (
	"context"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
)

type refreshTokenRepo struct{ c *Conn }

func (r *refreshTokenRepo) Upsert(_ context.Context, token repository.RefreshToken) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if _, ok := r.c.members[token.MemberID]; !ok {
		return repository.ErrNotFound
	}
	r.c.tokens[token.MemberID] = token
	return nil
}

func (r *refreshTokenRepo) GetByMember(_ context.Context, memberID string) (*repository.RefreshToken, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	rt, ok := r.c.tokens[memberID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rt, nil
}

func (r *refreshTokenRepo) Delete(_ context.Context, memberID string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	delete(r.c.tokens, memberID)
	return nil
}
