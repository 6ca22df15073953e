package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskflow/internal/config"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
)

func newJWT(t *testing.T) *jwtx.Service {
	t.Helper()
	svc, err := jwtx.NewService(jwtx.Config{
		Secret:    []byte(strings.Repeat("s", jwtx.MinSecretLen)),
		Issuer:    "taskflow",
		AccessTTL: time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func accessToken(t *testing.T, svc *jwtx.Service, role types.Role) string {
	t.Helper()
	tok, _, err := svc.IssueAccessToken(jwtx.Subject{Username: "alice", Email: "alice@x.com", Role: role})
	require.NoError(t, err)
	return tok
}

// identityRecorder escribe 200 y captura la identidad que vio el handler.
func identityRecorder(seen **Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestGateIsPublicSegmentBoundary(t *testing.T) {
	g := NewGate(nil, config.DefaultPublicPaths)

	assert.True(t, g.IsPublic("/member/login"))
	assert.True(t, g.IsPublic("/oauth/google/callback"))
	assert.True(t, g.IsPublic("/healthz"))
	assert.False(t, g.IsPublic("/oauth/googlex"))
	assert.False(t, g.IsPublic("/member/profile"))
	assert.False(t, g.IsPublic("/member/loginx"))
}

func TestGateIdentify(t *testing.T) {
	svc := newJWT(t)
	g := NewGate(svc, config.DefaultPublicPaths)

	r := httptest.NewRequest(http.MethodGet, "/member/profile", nil)
	r.Header.Set("Authorization", "Bearer "+accessToken(t, svc, types.RoleAdmin))
	id, ok := g.Identify(r)
	require.True(t, ok)
	assert.Equal(t, "alice", id.Subject)
	assert.Equal(t, "alice@x.com", id.Email)
	assert.Equal(t, types.RoleAdmin, id.Role)
	assert.Equal(t, []string{"ROLE_ADMIN"}, id.Authorities)

	// refresh token en Authorization no autentica
	refresh, _, err := svc.IssueRefreshToken(jwtx.Subject{Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)
	r.Header.Set("Authorization", "Bearer "+refresh)
	_, ok = g.Identify(r)
	assert.False(t, ok)

	r.Header.Set("Authorization", "Bearer garbage")
	_, ok = g.Identify(r)
	assert.False(t, ok)

	r.Header.Del("Authorization")
	_, ok = g.Identify(r)
	assert.False(t, ok)
}

func TestGateSkipsPublicPathsEvenWithToken(t *testing.T) {
	svc := newJWT(t)
	g := NewGate(svc, config.DefaultPublicPaths)

	var seen *Identity
	h := WithAuthentication(g)(identityRecorder(&seen))

	r := httptest.NewRequest(http.MethodPost, "/member/login", nil)
	r.Header.Set("Authorization", "Bearer "+accessToken(t, svc, types.RoleUser))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestWithAuthenticationNeverTerminates(t *testing.T) {
	g := NewGate(newJWT(t), nil)
	var seen *Identity
	h := WithAuthentication(g)(identityRecorder(&seen))

	r := httptest.NewRequest(http.MethodGet, "/member/profile", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthenticatedAndRole(t *testing.T) {
	svc := newJWT(t)
	g := NewGate(svc, nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	authed := Chain(ok, WithAuthentication(g), RequireAuthenticated())
	admin := Chain(ok, WithAuthentication(g), RequireRole(types.RoleAdmin))

	cases := []struct {
		name  string
		h     http.Handler
		token string
		want  int
	}{
		{"anonymous authed route", authed, "", http.StatusUnauthorized},
		{"user authed route", authed, accessToken(t, svc, types.RoleUser), http.StatusNoContent},
		{"anonymous admin route", admin, "", http.StatusUnauthorized},
		{"user admin route", admin, accessToken(t, svc, types.RoleUser), http.StatusForbidden},
		{"admin admin route", admin, accessToken(t, svc, types.RoleAdmin), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.token != "" {
				r.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			tc.h.ServeHTTP(rec, r)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
