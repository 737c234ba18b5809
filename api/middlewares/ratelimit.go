package middlewares

import (
	"net/http"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

// LoginLimiter hands out one token bucket per client IP. Buckets are
// forgotten after the configured TTL, which also resets a blocked client.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters *ttlworker.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func NewLoginLimiter(cfg types.LoginLimitConfig) *LoginLimiter {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &LoginLimiter{
		limiters: ttlworker.NewCache[string, *rate.Limiter](ttl),
		limit:    rate.Limit(cfg.Rate),
		burst:    burst,
	}
}

// Allow consumes one attempt for ip.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	limiter := l.limiters.Get(ip)
	if limiter == nil {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Set(ip, limiter)
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// Middleware rejects requests from clients that ran out of attempts.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			tool.DefaultLogger.Warnf("[Login] Too many attempts from %s", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, tool.FastReturnFailure("Too many login attempts, try again later"))
			return
		}
		c.Next()
	}
}
