package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLogin follows /login/github and returns the state and session cookies.
func startLogin(t *testing.T, env *testEnv) (string, []*http.Cookie) {
	t.Helper()

	w := env.do(httptest.NewRequest(http.MethodGet, "/login/github", nil))
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "provider.test", location.Host)

	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	return state, w.Result().Cookies()
}

func callback(env *testEnv, query string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/callback/github?"+query, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return env.do(req)
}

func exchange(env *testEnv, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login/github/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return env.do(req)
}

func TestOAuthHandler_LoginFlow(t *testing.T) {
	env := setupTestEnv(t)
	state, cookies := startLogin(t, env)

	w := callback(env, "code=good-code&state="+url.QueryEscape(state), cookies)
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", location.Path)
	token := location.Query().Get("token")
	require.NotEmpty(t, token)

	w = env.request(t, http.MethodGet, "/user", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "octo@example.com", data["email"])
	assert.Equal(t, "github", data["social_type"])
}

func TestOAuthHandler_Failures(t *testing.T) {
	env := setupTestEnv(t)
	errorLocation := testFrontendURL + "/auth/error?message=" + url.QueryEscape(oauthFailureMessage)

	t.Run("state mismatch", func(t *testing.T) {
		_, cookies := startLogin(t, env)
		w := callback(env, "code=good-code&state=forged", cookies)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, errorLocation, w.Header().Get("Location"))
	})

	t.Run("no session", func(t *testing.T) {
		state, _ := startLogin(t, env)
		w := callback(env, "code=good-code&state="+url.QueryEscape(state), nil)
		assert.Equal(t, errorLocation, w.Header().Get("Location"))
	})

	t.Run("provider rejects code", func(t *testing.T) {
		state, cookies := startLogin(t, env)
		w := callback(env, "code=bad-code&state="+url.QueryEscape(state), cookies)
		assert.Equal(t, errorLocation, w.Header().Get("Location"))
	})

	t.Run("unknown service", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/login/myspace", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Service not supported", decode(t, w)["message"])
	})
}

func TestOAuthHandler_ExchangeWithoutSessionCookie(t *testing.T) {
	env := setupTestEnv(t)
	state, _ := startLogin(t, env)

	w := exchange(env, `{"code":"good-code","state":"`+state+`"}`, nil)
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", location.Path)
	assert.NotEmpty(t, location.Query().Get("token"))
}

func TestOAuthHandler_ExchangeFailures(t *testing.T) {
	env := setupTestEnv(t)
	errorLocation := testFrontendURL + "/auth/error?message=" + url.QueryEscape(oauthFailureMessage)

	t.Run("unsigned state", func(t *testing.T) {
		w := exchange(env, `{"code":"good-code","state":"made-up"}`, nil)
		assert.Equal(t, errorLocation, w.Header().Get("Location"))
	})

	t.Run("missing state", func(t *testing.T) {
		w := exchange(env, `{"code":"good-code"}`, nil)
		assert.Equal(t, errorLocation, w.Header().Get("Location"))
	})

	t.Run("state from another login in the same session", func(t *testing.T) {
		otherState, _ := startLogin(t, env)
		_, cookies := startLogin(t, env)
		w := exchange(env, `{"code":"good-code","state":"`+otherState+`"}`, cookies)
		assert.Equal(t, errorLocation, w.Header().Get("Location"))
	})

	t.Run("form body", func(t *testing.T) {
		state, _ := startLogin(t, env)
		req := httptest.NewRequest(http.MethodPost, "/login/github/callback",
			strings.NewReader(url.Values{"code": {"good-code"}, "state": {state}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := env.do(req)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), testFrontendURL+"/auth/callback?token="))
	})
}
