package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/services"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"
)

type stubAuthenticator map[string]services.Identity

func (s stubAuthenticator) Authenticate(raw string) (*services.Identity, error) {
	identity, ok := s[raw]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &identity, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireAuth(t *testing.T) {
	auth := stubAuthenticator{"good": {UserID: 9, TokenID: "tok-1"}}

	router := gin.New()
	router.GET("/me", RequireAuth(auth), func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user": identity.UserID, "token": identity.TokenID})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"case insensitive scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user":9,"token":"tok-1"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "Unauthenticated.")
			}
		})
	}
}

func limitedRouter(t *testing.T, limiter *RateLimiter) *gin.Engine {
	router := gin.New()
	require.NoError(t, router.SetTrustedProxies(nil))
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func TestRateLimiter(t *testing.T) {
	router := limitedRouter(t, NewRateLimiter(rate.Limit(0.001), 2))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("198.51.100.1:4000"))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.1:4001"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1:4002"))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.2:4000"))
}

func TestRateLimiter_IgnoresClientSuppliedIPHeaders(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 10)
	router := limitedRouter(t, limiter)

	tooMany := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		fake := fmt.Sprintf("10.0.%d.%d", i/250, i%250+1)
		req.Header.Set("Client-IP", fake)
		req.Header.Set("X-Forwarded-For", fake)
		req.Header.Set("X-Real-IP", fake)
		req.Header.Set("CF-Connecting-IP", fake)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			tooMany++
		}
	}

	assert.GreaterOrEqual(t, tooMany, 39)
	assert.Equal(t, 1, limiter.size())
}

func TestRateLimiter_ResetsBucketsHourly(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 1)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.lastCleanup = now

	assert.True(t, limiter.get("198.51.100.1").Allow())
	assert.False(t, limiter.get("198.51.100.1").Allow())
	limiter.get("198.51.100.2")
	assert.Equal(t, 2, limiter.size())

	now = now.Add(limiterResetInterval + time.Second)
	assert.True(t, limiter.get("198.51.100.1").Allow())
	assert.Equal(t, 1, limiter.size())
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zaptest.NewLogger(t)), Recovery(zaptest.NewLogger(t)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
