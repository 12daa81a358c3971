package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/task-reminder-api/internal/constants"
	"github.com/yukikurage/task-reminder-api/internal/middleware"
	"go.uber.org/zap"
)

// Dependencies are the handlers and middleware the router wires together.
type Dependencies struct {
	Logger        *zap.Logger
	SessionStore  sessions.Store
	Authenticator middleware.Authenticator
	AuthLimiter   *middleware.RateLimiter

	// TrustedProxies and TrustedPlatform decide where c.ClientIP reads the
	// caller address from. With neither set only the socket address counts.
	TrustedProxies  []string
	TrustedPlatform string

	Auth          *AuthHandler
	Users         *UserHandler
	Passwords     *PasswordHandler
	Tasks         *TaskHandler
	Notifications *NotificationHandler
	Cron          *CronHandler
	OAuth         *OAuthHandler
}

// NewRouter builds the HTTP API.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.TrustedPlatform = trustedPlatformHeader(deps.TrustedPlatform)
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestLogger(deps.Logger), middleware.Recovery(deps.Logger))

	r.GET("/", Root)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Reminder API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := []gin.HandlerFunc{}
	if deps.AuthLimiter != nil {
		limited = append(limited, deps.AuthLimiter.Middleware())
	}

	// Public routes
	r.POST("/register", append(limited, deps.Auth.Register)...)
	r.POST("/login", append(limited, deps.Auth.Login)...)
	r.POST("/forgot-password", append(limited, deps.Passwords.ForgotPassword)...)
	r.POST("/reset-password", deps.Passwords.ResetPassword)
	r.POST("/is-token-valid", deps.Passwords.IsTokenValid)
	r.GET("/vapid-public-key", deps.Notifications.VAPIDPublicKey)
	r.GET("/cron/update-expired-task", deps.Cron.UpdateExpiredTasks)

	// Social login keeps its signed state in a cookie session as well.
	social := r.Group("")
	social.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))
	{
		social.GET("/login/:service", deps.OAuth.Redirect)
		social.POST("/login/:service/callback", deps.OAuth.Exchange)
		social.GET("/callback/:service", deps.OAuth.Callback)
	}

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.RequireAuth(deps.Authenticator))
	{
		protected.POST("/logout", deps.Auth.Logout)
		protected.GET("/user", deps.Auth.GetCurrentUser)

		user := protected.Group("/user")
		{
			user.GET("/activity", deps.Users.Activity)
			user.POST("/upload-avatar", deps.Users.UploadAvatar)
			user.PATCH("/change-password", deps.Users.ChangePassword)
			user.PATCH("/update-profile", deps.Users.UpdateProfile)
			user.DELETE("/delete", deps.Users.DeleteAccount)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", deps.Tasks.ListTasks)
			tasks.POST("", deps.Tasks.CreateTask)
			tasks.GET("/export", deps.Tasks.ExportTasks)
			tasks.PATCH("/:id", deps.Tasks.UpdateTask)
			tasks.DELETE("/:id", deps.Tasks.DeleteTask)
		}
		protected.GET("/task/categories", deps.Tasks.ListCategories)

		notifications := protected.Group("/notifications")
		{
			notifications.POST("/subscribe", deps.Notifications.Subscribe)
			notifications.POST("/unsubscribe", deps.Notifications.Unsubscribe)
		}
	}

	return r
}

func trustedPlatformHeader(platform string) string {
	switch platform {
	case "":
		return ""
	case "cloudflare":
		return gin.PlatformCloudflare
	case "google":
		return gin.PlatformGoogleAppEngine
	case "flyio":
		return gin.PlatformFlyIO
	default:
		return platform
	}
}
