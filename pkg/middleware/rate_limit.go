package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/coursehub-server-go/pkg/apperrors"
	"github.com/mo-amir99/coursehub-server-go/pkg/cache"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
)

// RateLimiter is a fixed window counter per client IP kept in the shared cache, so
// every replica sees the same budget when redis is configured.
type RateLimiter struct {
	store  cache.Client
	limit  int
	window time.Duration
	logger *slog.Logger
	prefix string
}

// NewRateLimiter allows limit requests per window.
func NewRateLimiter(store cache.Client, limit int, window time.Duration, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{store: store, limit: limit, window: window, logger: logger, prefix: "ratelimit:"}
}

// Middleware enforces the limit. Cache failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 || rl.window <= 0 {
			c.Next()
			return
		}

		bucket := time.Now().UnixNano() / int64(rl.window)
		key := rl.prefix + c.ClientIP() + ":" + strconv.FormatInt(bucket, 10)

		count, err := rl.store.IncrWindow(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", slog.String("error", err.Error()))
			c.Next()
			return
		}

		remaining := rl.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > rl.limit {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			response.FromError(rl.logger, c, apperrors.TooManyRequests("Too many requests. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}
