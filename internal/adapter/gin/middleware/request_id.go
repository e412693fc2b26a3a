package middleware

import (
	"github.com/gin-gonic/gin"

	"user-crud-service/pkg/logger"
)

// RequestID puts a request ID into the request context and echoes it back in
// the X-Request-ID response header. A caller-supplied ID is reused only when
// it is a UUID; anything else is replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := logger.NormalizeRequestID(c.GetHeader(logger.RequestIDHeader))

		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Header(logger.RequestIDHeader, requestID)

		c.Next()
	}
}
