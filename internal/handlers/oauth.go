package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-reminder-api/internal/constants"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/oauth"
	"github.com/yukikurage/task-reminder-api/internal/services"
	"go.uber.org/zap"
)

const oauthFailureMessage = "Authentication failed. Please try again."

var errStateMismatch = errors.New("oauth state mismatch")

// OAuthHandler runs the social login redirect and callback.
type OAuthHandler struct {
	providers   oauth.Registry
	states      *oauth.StateSigner
	authService *services.AuthService
	frontendURL string
	logger      *zap.Logger
}

func NewOAuthHandler(providers oauth.Registry, states *oauth.StateSigner, authService *services.AuthService, frontendURL string, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		providers:   providers,
		states:      states,
		authService: authService,
		frontendURL: frontendURL,
		logger:      logger.Named("oauth"),
	}
}

type callbackParams struct {
	Code  string `form:"code" json:"code"`
	State string `form:"state" json:"state"`
}

// Redirect sends the browser to the provider's consent page.
func (h *OAuthHandler) Redirect(c *gin.Context) {
	provider, err := h.providers.Get(c.Param("service"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	state, err := h.states.Issue(string(provider.Name()))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthState, state)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// Callback handles the provider's browser redirect. The state must also
// match the one Redirect saved in the session.
func (h *OAuthHandler) Callback(c *gin.Context) {
	h.finish(c, true)
}

// Exchange accepts the code and state posted by a front end, possibly from
// another site. Such requests carry no Lax session cookie, so the signed
// state is enough; a session state, when present, must still match.
func (h *OAuthHandler) Exchange(c *gin.Context) {
	h.finish(c, false)
}

func (h *OAuthHandler) finish(c *gin.Context, requireSession bool) {
	provider, err := h.providers.Get(c.Param("service"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	token, err := h.login(c, provider, requireSession)
	if err != nil {
		h.logger.Warn("social login failed",
			zap.String("provider", string(provider.Name())),
			zap.Error(err),
		)
		c.Redirect(http.StatusFound, h.frontendURL+"/auth/error?message="+url.QueryEscape(oauthFailureMessage))
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback?token="+url.QueryEscape(token))
}

func (h *OAuthHandler) login(c *gin.Context, provider oauth.Provider, requireSession bool) (string, error) {
	session := sessions.Default(c)
	expected, _ := session.Get(constants.SessionKeyOAuthState).(string)
	if expected != "" {
		session.Delete(constants.SessionKeyOAuthState)
		if err := session.Save(); err != nil {
			return "", err
		}
	}

	params := readCallbackParams(c)
	if err := h.states.Verify(params.State, string(provider.Name())); err != nil {
		return "", err
	}
	if (requireSession || expected != "") && params.State != expected {
		return "", errStateMismatch
	}
	if params.Code == "" {
		return "", errors.New("missing authorization code")
	}

	identity, err := provider.Identify(c.Request.Context(), params.Code)
	if err != nil {
		return "", err
	}

	_, token, err := h.authService.LoginWithProvider(provider.Name(), identity, clientInfo(c))
	return token, err
}

// readCallbackParams takes code and state from a JSON or form body, falling
// back to the query string.
func readCallbackParams(c *gin.Context) callbackParams {
	var params callbackParams
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBind(&params)
	}
	if params.Code == "" {
		params.Code = c.Query("code")
	}
	if params.State == "" {
		params.State = c.Query("state")
	}
	return params
}
