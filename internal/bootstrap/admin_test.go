package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/security/password"
	"github.com/dropDatabas3/taskflow/internal/store/adapters/memory"
)

func TestEnsureAdmin(t *testing.T) {
	conn := memory.New()
	ctx := context.Background()
	hasher := password.NewHasher(4)
	cfg := AdminConfig{
		Members:  conn.Members(),
		Hasher:   hasher,
		Policy:   password.Policy{MinLength: 8},
		Email:    " Root@Example.com ",
		Password: "correct-horse",
	}

	m, created, err := EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@example.com", m.Email)
	assert.Equal(t, types.RoleAdmin, m.Role)
	assert.Equal(t, "admin", m.Username)
	require.NotNil(t, m.PasswordHash)
	assert.True(t, hasher.Verify(*m.PasswordHash, "correct-horse"))

	again, created, err := EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m.ID, again.ID)
}

func TestEnsureAdminRejects(t *testing.T) {
	conn := memory.New()
	ctx := context.Background()
	_, err := conn.Members().Create(ctx, repository.CreateMemberInput{Email: "user@example.com", Username: "u"})
	require.NoError(t, err)

	base := AdminConfig{Members: conn.Members(), Hasher: password.NewHasher(4), Policy: password.Policy{MinLength: 8}}

	cfg := base
	cfg.Email, cfg.Password = "user@example.com", "long-enough"
	_, _, err = EnsureAdmin(ctx, cfg)
	assert.ErrorIs(t, err, ErrNotAdmin)

	cfg = base
	cfg.Email, cfg.Password = "new@example.com", "short"
	_, _, err = EnsureAdmin(ctx, cfg)
	assert.Error(t, err)

	cfg = base
	_, _, err = EnsureAdmin(ctx, cfg)
	assert.Error(t, err)
}
