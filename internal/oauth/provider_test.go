package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/config"
	"golang.org/x/oauth2"
)

func newProviderServer(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"bearer"}`))
	})
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGoogleProvider_Identify(t *testing.T) {
	server := newProviderServer(t, map[string]any{
		"/userinfo": map[string]string{"sub": "1090", "name": "Ada", "email": "ada@example.com"},
	})

	p := NewGoogleProvider("id", "secret", "http://localhost/callback/google")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: server.URL + "/auth", TokenURL: server.URL + "/token"}
	p.userInfoURL = server.URL + "/userinfo"

	identity, err := p.Identify(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "1090", Name: "Ada", Email: "ada@example.com"}, identity)

	authURL, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)
	assert.Equal(t, "state-1", authURL.Query().Get("state"))
}

func TestGitHubProvider_IdentifyFallsBackToPrimaryEmail(t *testing.T) {
	server := newProviderServer(t, map[string]any{
		"/api/user": map[string]any{"id": 42, "login": "octo", "name": ""},
		"/api/user/emails": []map[string]any{
			{"email": "secondary@example.com", "primary": false, "verified": true},
			{"email": "octo@example.com", "primary": true, "verified": true},
		},
	})

	p := NewGitHubProvider("id", "secret", "http://localhost/callback/github")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: server.URL + "/auth", TokenURL: server.URL + "/token"}
	base, err := url.Parse(server.URL + "/api/")
	require.NoError(t, err)
	p.baseURL = base

	identity, err := p.Identify(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "42", Name: "octo", Email: "octo@example.com"}, identity)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(&config.Config{AppURL: "http://api.test", GoogleClientID: "g"})

	p, err := registry.Get("google")
	require.NoError(t, err)
	assert.Contains(t, p.AuthCodeURL("s"), url.QueryEscape("http://api.test/callback/google"))

	_, err = registry.Get("github")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	_, err = registry.Get("facebook")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
