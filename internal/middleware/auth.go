package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-reminder-api/internal/constants"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/services"
)

// Authenticator resolves a bearer token to the identity it was issued for.
type Authenticator interface {
	Authenticate(raw string) (*services.Identity, error)
}

// RequireAuth checks the Authorization bearer token
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		identity, err := auth.Authenticate(raw)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, identity.UserID)
		c.Set(constants.ContextKeyTokenID, identity.TokenID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetIdentity returns the user and token the request was authenticated with.
func GetIdentity(c *gin.Context) (services.Identity, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return services.Identity{}, false
	}
	return services.Identity{UserID: userID, TokenID: c.GetString(constants.ContextKeyTokenID)}, true
}
