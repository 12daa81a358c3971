package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"golang.org/x/time/rate"
)

// limiterResetInterval bounds how long idle buckets are kept.
const limiterResetInterval = time.Hour

// RateLimiter keeps one token bucket per client IP. The IP comes from
// gin's ClientIP, so forwarding headers only count when they arrive through
// a proxy the engine trusts.
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time
	limit       rate.Limit
	burst       int
	now         func() time.Time
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:    make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
		limit:       limit,
		burst:       burst,
		now:         time.Now,
	}
}

func (l *RateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop every bucket once an hour so the map cannot grow without bound.
	if now := l.now(); now.Sub(l.lastCleanup) > limiterResetInterval {
		l.limiters = make(map[string]*rate.Limiter)
		l.lastCleanup = now
	}

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			apierrors.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
