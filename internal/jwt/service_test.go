package jwt

import (
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

var testSecret = []byte(strings.Repeat("k", MinSecretLen))

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, clock *fakeClock) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Secret:     testSecret,
		Issuer:     "taskflow",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

var alice = Subject{Username: "alice", Email: "alice@x.com", Role: types.RoleUser}

func TestNewServiceRejectsShortSecret(t *testing.T) {
	_, err := NewService(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewServiceDefaults(t *testing.T) {
	svc, err := NewService(Config{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, svc.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, svc.RefreshTTL())
}

func TestAccessTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	tok, exp, err := svc.IssueAccessToken(alice)
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(15*time.Minute), exp)

	c, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Username())
	assert.Equal(t, "alice@x.com", c.Email)
	assert.Equal(t, types.RoleUser, c.RoleValue())
	assert.Equal(t, UseAccess, c.Use)
	assert.Equal(t, "taskflow", c.Issuer)
	assert.NotEmpty(t, c.ID)
	assert.True(t, svc.IsValid(tok))

	_, err = svc.VerifyAccess(tok)
	require.NoError(t, err)
	_, err = svc.VerifyRefresh(tok)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestRefreshTokenCarriesNoRole(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)

	tok, exp, err := svc.IssueRefreshToken(Subject{Username: "alice", Email: "alice@x.com", Role: types.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, clock.t.Add(7*24*time.Hour), exp, time.Second)

	c, err := svc.VerifyRefresh(tok)
	require.NoError(t, err)
	assert.Empty(t, c.Role)
	_, present := svc.Claim(tok, "role")
	assert.False(t, present)
}

func TestTokensAreUniquePerIssuance(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)

	a, _, err := svc.IssueRefreshToken(alice)
	require.NoError(t, err)
	b, _, err := svc.IssueRefreshToken(alice)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	tok, _, err := svc.IssueAccessToken(alice)
	require.NoError(t, err)

	clock.t = clock.t.Add(15*time.Minute + time.Second)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, svc.IsValid(tok))
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := newTestService(t, &fakeClock{t: time.Now()})
	tok, _, err := svc.IssueAccessToken(alice)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	for _, i := range []int{0, len(sig) / 2, len(sig) - 2, len(sig) - 1} {
		mut := append([]byte(nil), sig...)
		if mut[i] == 'A' {
			mut[i] = 'B'
		} else {
			mut[i] = 'A'
		}
		forged := parts[0] + "." + parts[1] + "." + string(mut)
		_, err := svc.Verify(forged)
		assert.ErrorIs(t, err, ErrTokenSignatureInvalid, "byte %d", i)
	}
}

// El último carácter de una firma HS512 lleva bits de relleno: toda variante
// distinta debe rechazarse como firma inválida.
func TestVerifyRejectsEveryLastCharVariant(t *testing.T) {
	svc := newTestService(t, &fakeClock{t: time.Now()})
	tok, _, err := svc.IssueAccessToken(alice)
	require.NoError(t, err)

	last := tok[len(tok)-1]
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for _, c := range []byte(alphabet) {
		if c == last {
			continue
		}
		forged := tok[:len(tok)-1] + string(c)
		_, err := svc.Verify(forged)
		assert.ErrorIs(t, err, ErrTokenSignatureInvalid, "last char %q (orig %q)", c, last)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	svc := newTestService(t, &fakeClock{t: time.Now()})
	other, err := NewService(Config{Secret: []byte(strings.Repeat("z", MinSecretLen)), Issuer: "taskflow"})
	require.NoError(t, err)

	tok, _, err := other.IssueAccessToken(alice)
	require.NoError(t, err)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestService(t, &fakeClock{t: time.Now()})

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"sub": "alice", "iss": "taskflow", "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tk.SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	svc := newTestService(t, &fakeClock{t: time.Now()})
	for _, raw := range []string{"", "   ", "garbage", "a.b.c", "eyJhbGciOiJIUzUxMiJ9.e30"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, raw)
	}
}

func TestClaimAccessor(t *testing.T) {
	svc := newTestService(t, &fakeClock{t: time.Now()})
	tok, _, err := svc.IssueAccessToken(alice)
	require.NoError(t, err)

	email, ok := svc.Claim(tok, "email")
	require.True(t, ok)
	assert.Equal(t, "alice@x.com", email)

	_, ok = svc.Claim(tok, "missing")
	assert.False(t, ok)
	_, ok = svc.Claim("not-a-token", "email")
	assert.False(t, ok)
}
