package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/store"
)

func TestRegisteredInStoreRegistry(t *testing.T) {
	conn, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", conn.Name())
	assert.NoError(t, conn.Ping(context.Background()))
}

func TestMemberEmailIsUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	c := New()

	m, err := c.Members().Create(ctx, repository.CreateMemberInput{Email: "Alice@X.com", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", m.Email)
	assert.Equal(t, types.ProviderLocal, m.Provider)
	assert.Equal(t, types.RoleUser, m.Role)
	assert.True(t, m.Active)

	_, err = c.Members().Create(ctx, repository.CreateMemberInput{Email: " alice@x.COM "})
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := c.Members().GetByEmail(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = c.Members().GetByEmail(ctx, "bob@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateWithIdentityIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := New()

	m, err := c.Members().CreateWithIdentity(ctx,
		repository.CreateMemberInput{Email: "g@x.com", Provider: types.ProviderGoogle},
		repository.CreateIdentityInput{Provider: types.ProviderGoogle, ProviderID: "g-1"})
	require.NoError(t, err)

	identity, err := c.Identities().GetByProvider(ctx, types.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.Equal(t, m.ID, identity.MemberID)

	// Identidad repetida con otro email: nada se persiste.
	_, err = c.Members().CreateWithIdentity(ctx,
		repository.CreateMemberInput{Email: "other@x.com", Provider: types.ProviderGoogle},
		repository.CreateIdentityInput{Provider: types.ProviderGoogle, ProviderID: "g-1"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = c.Members().GetByEmail(ctx, "other@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := c.Identities().ListByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRefreshTokenUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	c := New()
	m, err := c.Members().Create(ctx, repository.CreateMemberInput{Email: "a@x.com"})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, c.RefreshTokens().Upsert(ctx, repository.RefreshToken{MemberID: m.ID, TokenHash: "h1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, c.RefreshTokens().Upsert(ctx, repository.RefreshToken{MemberID: m.ID, TokenHash: "h2", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}))
	assert.Equal(t, 1, c.CountRefreshTokens(m.ID))

	rt, err := c.RefreshTokens().GetByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", rt.TokenHash)

	require.NoError(t, c.RefreshTokens().Delete(ctx, m.ID))
	require.NoError(t, c.RefreshTokens().Delete(ctx, m.ID))
	_, err = c.RefreshTokens().GetByMember(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = c.RefreshTokens().Upsert(ctx, repository.RefreshToken{MemberID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentRegistrationSingleWinner(t *testing.T) {
	ctx := context.Background()
	c := New()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Members().Create(ctx, repository.CreateMemberInput{Email: "race@x.com"}); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestSetActiveAndTouch(t *testing.T) {
	ctx := context.Background()
	c := New()
	m, err := c.Members().Create(ctx, repository.CreateMemberInput{Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, c.Members().SetActive(ctx, m.ID, false))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, c.Members().TouchLastLogin(ctx, m.ID, at))

	got, err := c.Members().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))

	assert.ErrorIs(t, c.Members().SetActive(ctx, "nope", true), repository.ErrNotFound)
}
