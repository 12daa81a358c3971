package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/services"
	"github.com/yukikurage/task-reminder-api/internal/utils"
)

func init() {
	// Report validation errors under the JSON names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

func success(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		IP:     utils.ClientIP(c),
		Device: c.Request.UserAgent(),
	}
}

// respondServiceError maps service sentinels to responses. Unknown errors
// become a generic 500 after being attached to the context for logging.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidCredentials):
		apierrors.UnprocessableEntity(c, "email", err.Error())
	case errors.Is(err, services.ErrCurrentPasswordIncorrect):
		apierrors.UnprocessableEntity(c, "current_password", err.Error())
	case errors.Is(err, services.ErrUnsupportedAvatar):
		apierrors.UnprocessableEntity(c, "avatar", err.Error())
	case errors.Is(err, services.ErrInvalidSubscription):
		apierrors.UnprocessableEntity(c, "subscription", err.Error())
	case errors.Is(err, services.ErrInvalidResetToken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrNoTasks):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, "")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// Root answers the health banner on /.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API is working"})
}
