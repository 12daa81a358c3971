package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP resolves the caller address recorded in the activity log,
// preferring proxy headers. The headers are client supplied, so the result
// must not key anything security relevant; use gin's c.ClientIP there. Order:
// Client-IP, X-Forwarded-For (first valid entry), CF-Connecting-IP.
func ClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("Client-IP")); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		for _, candidate := range strings.Split(xff, ",") {
			candidate = strings.TrimSpace(candidate)
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return c.ClientIP()
}
