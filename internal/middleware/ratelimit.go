package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter limits requests per client IP with a token bucket.
// Limiters idle for longer than limiterIdleTTL are evicted.
type RateLimiter struct {
	limiters *gocache.Cache
	limit    rate.Limit
	burst    int
	perMin   int
	logger   *logging.Logger
}

// NewRateLimiter creates a limiter allowing RequestsPerMinute with Burst.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	perMin := cfg.RequestsPerMinute
	if perMin <= 0 {
		perMin = 30
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		limiters: gocache.New(limiterIdleTTL, limiterIdleTTL),
		limit:    rate.Every(time.Minute / time.Duration(perMin)),
		burst:    burst,
		perMin:   perMin,
		logger:   logging.NewLogger("rate-limiter"),
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		limiter := v.(*rate.Limiter)
		rl.limiters.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	if err := rl.limiters.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// Another request created it first.
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := "ip:" + c.ClientIP()

		if !rl.getLimiter(clientID).Allow() {
			rl.logger.Warn("Rate limit exceeded", logging.Fields{
				"client_id": clientID,
				"path":      c.Request.URL.Path,
				"method":    c.Request.Method,
			})

			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMin))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes. Intente de nuevo más tarde.",
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMin))
		c.Next()
	}
}
