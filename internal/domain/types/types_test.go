package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	cases := map[string]Provider{
		"google":  ProviderGoogle,
		" Naver ": ProviderNaver,
		"KAKAO":   ProviderKakao,
		"local":   ProviderLocal,
	}
	for in, want := range cases {
		got, ok := ParseProvider(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseProvider("github")
	assert.False(t, ok)
	_, ok = ParseProvider("")
	assert.False(t, ok)
}

func TestProviderHelpers(t *testing.T) {
	assert.Equal(t, "kakao", ProviderKakao.Slug())
	assert.True(t, ProviderGoogle.IsFederated())
	assert.False(t, ProviderLocal.IsFederated())
	assert.False(t, Provider("x").IsFederated())
}

func TestRoleAuthority(t *testing.T) {
	assert.Equal(t, "ROLE_USER", RoleUser.Authority())
	assert.Equal(t, "ROLE_ADMIN", RoleAdmin.Authority())
	assert.False(t, Role("ROOT").IsValid())
}
