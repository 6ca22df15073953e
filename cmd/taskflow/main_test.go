package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSecretCommand(t *testing.T) {
	out, err := run(t, "secret")
	require.NoError(t, err)
	s := strings.TrimSpace(out)
	assert.GreaterOrEqual(t, len(s), jwtx.MinSecretLen)

	other, err := run(t, "secret")
	require.NoError(t, err)
	assert.NotEqual(t, s, strings.TrimSpace(other))

	_, err = run(t, "secret", "--bytes", "16")
	assert.Error(t, err)
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	_, err := run(t, "migrate", "sideways")
	assert.Error(t, err)
}
