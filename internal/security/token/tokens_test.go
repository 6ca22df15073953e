package tokens

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(64)
	require.NoError(t, err)
	b, err := GenerateOpaqueToken(64)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
}

func TestSHA256Base64URL(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ungWv48Bz-pBQUDeXa4iI7ADYaOWF3qctBD_YfIAFa0", SHA256Base64URL("abc"))
	assert.True(t, EqualHash(SHA256Base64URL("x"), SHA256Base64URL("x")))
	assert.False(t, EqualHash(SHA256Base64URL("x"), SHA256Base64URL("y")))
}
