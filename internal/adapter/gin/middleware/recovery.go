package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/gin/response"
	"user-crud-service/pkg/logger"
)

// Recovery turns a panic in a later handler into a 500 envelope.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered in http handler",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				response.AbortWithFail(c, http.StatusInternalServerError, "internal server error")
			}
		}()

		c.Next()
	}
}
