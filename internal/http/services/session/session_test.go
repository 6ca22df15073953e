package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/http/services/social"
	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
	"github.com/dropDatabas3/taskflow/internal/security/password"
	tokens "github.com/dropDatabas3/taskflow/internal/security/token"
	"github.com/dropDatabas3/taskflow/internal/store/adapters/memory"
)

var testSecret = []byte(strings.Repeat("k", jwtx.MinSecretLen))

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type stubSocial struct {
	member *repository.Member
	err    error
}

func (s stubSocial) Authenticate(context.Context, types.Provider, string, string) (*repository.Member, error) {
	return s.member, s.err
}

type fixture struct {
	svc   SessionService
	conn  *memory.Conn
	auth  auth.AuthService
	jwt   *jwtx.Service
	clock *clock
}

func newFixture(t *testing.T, opts ...func(*Deps)) *fixture {
	t.Helper()
	clk := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	conn := memory.New()

	js, err := jwtx.NewService(jwtx.Config{
		Secret:     testSecret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}, jwtx.WithClock(clk.Now))
	require.NoError(t, err)

	authSvc := auth.NewAuthService(auth.Deps{
		Members: conn.Members(),
		Hasher:  password.NewHasher(4),
		Policy:  password.Policy{MinLength: 4},
	})
	deps := Deps{
		Auth:          authSvc,
		Social:        stubSocial{err: social.ErrProviderNotEnabled},
		Members:       conn.Members(),
		RefreshTokens: conn.RefreshTokens(),
		Tokens:        js,
		Cookie:        CookieConfig{Secure: true, SameSite: http.SameSiteStrictMode},
		Now:           clk.Now,
	}
	for _, o := range opts {
		o(&deps)
	}
	return &fixture{svc: NewSessionService(deps), conn: conn, auth: authSvc, jwt: js, clock: clk}
}

func (f *fixture) register(t *testing.T, email string) *repository.Member {
	t.Helper()
	m, err := f.auth.Register(context.Background(), auth.RegisterInput{Email: email, Password: "pw-1234", Username: "alice"})
	require.NoError(t, err)
	return m
}

func TestLoginEstablishesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.register(t, "alice@example.com")

	res, err := f.svc.Login(ctx, "Alice@Example.com", "pw-1234")
	require.NoError(t, err)
	assert.Equal(t, m.ID, res.Member.ID)
	assert.Equal(t, f.clock.Now().Add(15*time.Minute), res.AccessExpiresAt)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), res.RefreshExpiresAt)

	claims, err := f.jwt.VerifyAccess(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, types.RoleUser, claims.RoleValue())

	rec, err := f.conn.RefreshTokens().GetByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, tokens.SHA256Base64URL(res.RefreshToken), rec.TokenHash)
	assert.Equal(t, res.RefreshExpiresAt, rec.ExpiresAt)

	stored, err := f.conn.Members().GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, stored.LastLoginAt.Equal(f.clock.Now()))
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	m := f.register(t, "alice@example.com")
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "alice@example.com", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, 0, f.conn.CountRefreshTokens(m.ID))

	require.NoError(t, f.conn.Members().SetActive(ctx, m.ID, false))
	_, err = f.svc.Login(ctx, "alice@example.com", "pw-1234")
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestSecondLoginReplacesRefreshRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.register(t, "alice@example.com")

	first, err := f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.NoError(t, err)

	assert.Equal(t, 1, f.conn.CountRefreshTokens(m.ID))
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenSuperseded)
	_, err = f.svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.register(t, "alice@example.com")

	login, err := f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	rotated, err := f.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.NotEqual(t, login.AccessToken, rotated.AccessToken)
	assert.Equal(t, m.ID, rotated.Member.ID)

	rec, err := f.conn.RefreshTokens().GetByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, tokens.SHA256Base64URL(rotated.RefreshToken), rec.TokenHash)

	// el token ya rotado no sirve más
	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenSuperseded)
}

func TestRefreshRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.register(t, "alice@example.com")
	login, err := f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
	t.Run("access token used as refresh", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, login.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
	t.Run("unknown member", func(t *testing.T) {
		tok, _, err := f.jwt.IssueRefreshToken(jwtx.Subject{Username: "ghost", Email: "ghost@example.com"})
		require.NoError(t, err)
		_, err = f.svc.Refresh(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
	t.Run("disabled member", func(t *testing.T) {
		require.NoError(t, f.conn.Members().SetActive(ctx, m.ID, false))
		defer func() { require.NoError(t, f.conn.Members().SetActive(ctx, m.ID, true)) }()
		_, err := f.svc.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	})
	t.Run("expired", func(t *testing.T) {
		f.clock.Advance(25 * time.Hour)
		_, err := f.svc.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestLogoutRevokesRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.register(t, "alice@example.com")
	login, err := f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.NoError(t, err)

	revoked, err := f.svc.Logout(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 0, f.conn.CountRefreshTokens(m.ID))

	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	// idempotente
	revoked, err = f.svc.Logout(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogoutWithoutUsableBearer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice@example.com")
	login, err := f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.NoError(t, err)

	for _, bearer := range []string{"", "garbage", login.RefreshToken} {
		revoked, err := f.svc.Logout(ctx, bearer)
		assert.NoError(t, err, bearer)
		assert.False(t, revoked, bearer)
	}
}

type failingTokens struct{ repository.RefreshTokenRepository }

func (failingTokens) Upsert(context.Context, repository.RefreshToken) error {
	return repository.ErrStoreUnavailable
}

func (failingTokens) Delete(context.Context, string) error {
	return repository.ErrStoreUnavailable
}

func TestStoreFailuresSurface(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com")
	login, err := f.svc.Login(context.Background(), "alice@example.com", "pw-1234")
	require.NoError(t, err)

	broken := newFixture(t, func(d *Deps) {
		d.RefreshTokens = failingTokens{d.RefreshTokens}
	})
	broken.register(t, "alice@example.com")
	ctx := context.Background()

	_, err = broken.svc.Login(ctx, "alice@example.com", "pw-1234")
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	// mismo secreto: el bearer de la otra instancia es válido aquí
	revoked, err := broken.svc.Logout(ctx, login.AccessToken)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.False(t, revoked)
}

// touchFailingMembers falla TouchLastLogin mientras fail esté activo.
type touchFailingMembers struct {
	repository.MemberRepository
	fail *bool
}

func (m touchFailingMembers) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if *m.fail {
		return repository.ErrStoreUnavailable
	}
	return m.MemberRepository.TouchLastLogin(ctx, id, at)
}

func TestFailedLoginKeepsPreviousRefreshToken(t *testing.T) {
	fail := false
	f := newFixture(t, func(d *Deps) {
		d.Members = touchFailingMembers{MemberRepository: d.Members, fail: &fail}
	})
	ctx := context.Background()
	m := f.register(t, "alice@example.com")

	first, err := f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.NoError(t, err)

	fail = true
	f.clock.Advance(time.Second)
	_, err = f.svc.Login(ctx, "alice@example.com", "pw-1234")
	require.ErrorIs(t, err, repository.ErrStoreUnavailable)

	rec, err := f.conn.RefreshTokens().GetByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, tokens.SHA256Base64URL(first.RefreshToken), rec.TokenHash)

	fail = false
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.NoError(t, err)
}

func TestFederatedLogin(t *testing.T) {
	conn := memory.New()
	m, err := conn.Members().Create(context.Background(), repository.CreateMemberInput{
		Email: "bob@gmail.com", Username: "Bob", Provider: types.ProviderGoogle,
	})
	require.NoError(t, err)

	f := newFixture(t, func(d *Deps) {
		d.Social = stubSocial{member: m}
		d.Members = conn.Members()
		d.RefreshTokens = conn.RefreshTokens()
	})
	res, err := f.svc.FederatedLogin(context.Background(), types.ProviderGoogle, "code", "")
	require.NoError(t, err)
	assert.Equal(t, m.ID, res.Member.ID)
	assert.Equal(t, 1, conn.CountRefreshTokens(m.ID))

	upstream := errors.Join(social.ErrProviderExchangeFailed, errors.New("boom"))
	f = newFixture(t, func(d *Deps) { d.Social = stubSocial{err: upstream} })
	_, err = f.svc.FederatedLogin(context.Background(), types.ProviderGoogle, "code", "")
	assert.ErrorIs(t, err, social.ErrProviderExchangeFailed)
}

func TestCookies(t *testing.T) {
	f := newFixture(t)
	exp := f.clock.Now().Add(24 * time.Hour)

	c := f.svc.RefreshCookie("tok", exp)
	assert.Equal(t, "refreshToken", c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int((24 * time.Hour).Seconds()), c.MaxAge)

	clear := f.svc.ClearCookie()
	assert.Equal(t, "refreshToken", clear.Name)
	assert.Empty(t, clear.Value)
	assert.Equal(t, -1, clear.MaxAge)
	assert.True(t, clear.Expires.Equal(time.Unix(0, 0)))
	assert.True(t, clear.HttpOnly)
}
