package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/gin/response"
	"user-crud-service/pkg/logger"
	"user-crud-service/pkg/ratelimit"
)

// RateLimiter returns a Gin middleware limiting requests per method and client
// IP. A nil or disabled limiter lets every request through.
func RateLimiter(limiter *ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		key := fmt.Sprintf("%s:%s", c.Request.Method, clientIP)

		if !limiter.Allow(c.Request.Context(), key) {
			logger.WithContext(c.Request.Context(), log).Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Float64("limit", limiter.RequestsPerSecond()),
			)
			response.AbortWithFail(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		c.Next()
	}
}
