package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskflow/internal/http/providers"
)

func TestGoogleFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "csecret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "http://localhost:3000/oauth/google", r.PostForm.Get("redirect_uri"))
		_, _ = w.Write([]byte(`{"access_token":"g-at","expires_in":3599,"token_type":"Bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer g-at", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"sub":"1090","email":"bob@gmail.com","name":"Bob","picture":"https://p/x.png"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := New(providers.Config{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RedirectURI:  "http://localhost:3000/oauth/google",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	})
	require.NoError(t, err)
	assert.False(t, p.RequiresState())

	prof, err := providers.ExchangeAndFetchProfile(context.Background(), p, "the-code", "")
	require.NoError(t, err)
	assert.Equal(t, "1090", prof.ProviderID)
	assert.Equal(t, "bob@gmail.com", prof.Email)
	assert.Equal(t, "Bob", prof.Name)
	assert.Equal(t, "https://p/x.png", prof.Picture)
}

func TestGoogleRequiresCredentials(t *testing.T) {
	_, err := New(providers.Config{ClientID: "cid"})
	assert.Error(t, err)
}
