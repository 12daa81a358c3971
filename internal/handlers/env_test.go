package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/oauth"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/scheduler"
	"github.com/yukikurage/task-reminder-api/internal/services"
	"github.com/yukikurage/task-reminder-api/internal/testutil"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const (
	testFrontendURL = "http://frontend.test"
	testCronSecret  = "cron-secret"
	testVAPIDKey    = "BPublicKeyForTests"
	testStateSecret = "state-secret-state-secret-state-secret"
)

type captureMailer struct {
	links []string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, _ string, resetURL string) error {
	m.links = append(m.links, resetURL)
	return nil
}

type fakeProvider struct {
	identities map[string]*oauth.Identity
}

func (p *fakeProvider) Name() models.SocialProvider { return models.SocialProviderGitHub }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + state
}

func (p *fakeProvider) Identify(_ context.Context, code string) (*oauth.Identity, error) {
	identity, ok := p.identities[code]
	if !ok {
		return nil, fmt.Errorf("bad code %q", code)
	}
	return identity, nil
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	deps     Dependencies
	mailer   *captureMailer
	provider *fakeProvider
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	logger := zaptest.NewLogger(t)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := services.NewTokenService(repository.NewTokenRepository(db), "handler-test-secret-handler-test-secret", time.Hour)
	activity := services.NewActivityService(repository.NewActivityRepository(db), logger)
	authService := services.NewAuthService(userRepo, tokens, activity)
	mailer := &captureMailer{}
	provider := &fakeProvider{identities: map[string]*oauth.Identity{
		"good-code": {ID: "1001", Name: "Octo Cat", Email: "octo@example.com"},
	}}
	providers := oauth.Registry{}
	providers.Add(provider)

	deps := Dependencies{
		Logger:        logger,
		SessionStore:  cookie.NewStore([]byte("session-secret")),
		Authenticator: tokens,
		Auth:          NewAuthHandler(authService),
		Users:         NewUserHandler(services.NewUserService(userRepo, activity), activity),
		Passwords: NewPasswordHandler(services.NewPasswordResetService(
			userRepo, repository.NewPasswordResetRepository(db), mailer, activity, testFrontendURL,
		)),
		Tasks:         NewTaskHandler(services.NewTaskService(taskRepo), authService, time.UTC),
		Notifications: NewNotificationHandler(services.NewNotificationService(repository.NewPushSubscriptionRepository(db)), testVAPIDKey),
		Cron:          NewCronHandler(scheduler.NewExpirySweeper(taskRepo, nil, logger), testCronSecret),
		OAuth:         NewOAuthHandler(providers, oauth.NewStateSigner(testStateSecret), authService, testFrontendURL, logger),
	}

	return &testEnv{db: db, router: NewRouter(deps), deps: deps, mailer: mailer, provider: provider}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// request sends body as JSON unless it is nil.
func (env *testEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return env.do(req)
}

// register creates an account through the API and returns its token.
func (env *testEnv) register(t *testing.T, email string) (string, uint64) {
	t.Helper()

	w := env.request(t, http.MethodPost, "/register", map[string]string{
		"name":                  "Tester",
		"email":                 email,
		"password":              "password123",
		"password_confirmation": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	user := body["user"].(map[string]any)
	return body["token"].(string), uint64(user["id"].(float64))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decode(t, w)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return errs
}
