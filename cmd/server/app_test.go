package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/config"
	"github.com/yukikurage/task-reminder-api/internal/handlers"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/testutil"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := config.Load("")
	require.NoError(t, err)

	db := testutil.NewTestDB(t)
	return &app{
		cfg:           cfg,
		logger:        zaptest.NewLogger(t),
		db:            db,
		location:      time.UTC,
		users:         repository.NewUserRepository(db),
		tasks:         repository.NewTaskRepository(db),
		subscriptions: repository.NewPushSubscriptionRepository(db),
	}
}

func TestSessionStoreCookie(t *testing.T) {
	a := newTestApp(t)
	store, err := a.sessionStore()
	require.NoError(t, err)

	router := gin.New()
	router.Use(sessions.Sessions("oauth_session", store))
	router.GET("/", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("state", "abc")
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 600, cookies[0].MaxAge)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestDependencies_AuthRateLimitUsesSocketAddress(t *testing.T) {
	a := newTestApp(t)
	deps, err := a.dependencies()
	require.NoError(t, err)
	router := handlers.NewRouter(*deps)

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"email":"nobody@example.com","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.77:41000"
		req.Header.Set("Client-IP", fmt.Sprintf("10.9.0.%d", i+1))
		req.Header.Set("X-Forwarded-For", "10.9.1.1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.GreaterOrEqual(t, limited, 5)
}
