package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailDoesNotMutateBase(t *testing.T) {
	e := ErrInvalidCredentials.WithDetail("x")
	assert.Equal(t, "x", e.Detail)
	assert.Empty(t, ErrInvalidCredentials.Detail)
}

func TestFromErrorUnwrapsChain(t *testing.T) {
	base := ErrAccountLinkConflict.WithCause(stderrors.New("dup"))
	wrapped := fmt.Errorf("ctx: %w", base)
	assert.Same(t, base, FromError(wrapped))

	plain := FromError(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
	assert.EqualError(t, plain.Unwrap(), "boom")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrStateReplayed.WithDetail("naver"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STATE_REPLAYED", body["code"])
	assert.Equal(t, "naver", body["detail"])
}

func TestWriteErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
}
