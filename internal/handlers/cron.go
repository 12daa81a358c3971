package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
)

// Sweeper expires overdue tasks.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// CronHandler exposes batch jobs to an external scheduler.
type CronHandler struct {
	sweeper Sweeper
	secret  string
}

// NewCronHandler creates a new CronHandler. An empty secret leaves the
// endpoint open.
func NewCronHandler(sweeper Sweeper, secret string) *CronHandler {
	return &CronHandler{sweeper: sweeper, secret: secret}
}

// UpdateExpiredTasks runs the expiry sweep.
func (h *CronHandler) UpdateExpiredTasks(c *gin.Context) {
	if h.secret != "" {
		given := c.GetHeader("X-Cron-Secret")
		if given == "" {
			given = c.Query("secret")
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
			apierrors.Forbidden(c, "")
			return
		}
	}

	expired, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Expired tasks updated successfully", gin.H{"expired": expired})
}
