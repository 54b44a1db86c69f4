package middleware

import (
	"net/http"
	"time"

	"gamevault/internal/kvstore"
	"gamevault/internal/logger"

	"github.com/gin-gonic/gin"
)

// GinRateLimit caps requests per client IP within a rolling window,
// counted in the shared store so the limit holds across instances.
// Intended for the login route, where unlimited tries would let an
// attacker grind passwords.
func GinRateLimit(store kvstore.Store, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.FullPath() + ":" + c.ClientIP()

		count, err := store.Incr(c.Request.Context(), key)
		if err != nil {
			// Store trouble must not lock everyone out.
			logger.Warn("rate limiter unavailable", map[string]any{
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count == 1 {
			if _, err := store.Expire(c.Request.Context(), key, window); err != nil {
				logger.Warn("rate limiter expire failed", map[string]any{
					"error": err.Error(),
				})
			}
		}

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many attempts, try again later",
			})
			return
		}

		c.Next()
	}
}
