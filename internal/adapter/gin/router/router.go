package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-crud-service/api/openapi"
	"user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	"user-crud-service/internal/adapter/gin/response"
	"user-crud-service/pkg/ratelimit"
)

// Config holds router options taken from the application config.
type Config struct {
	AllowedOrigins []string
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are honoured. Empty trusts none, so the client IP is the peer.
	TrustedProxies []string
	SwaggerEnabled bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	cfg Config,
	userHandler *handler.UserHandler,
	systemHandler *handler.SystemHandler,
	rateLimiter *ratelimit.Limiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, trusting none",
			zap.Strings("trusted_proxies", cfg.TrustedProxies),
			zap.Error(err),
		)
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "route not found")
	})
	router.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.GET("/", systemHandler.Index)
	router.GET("/health", systemHandler.Health)

	if cfg.SwaggerEnabled {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", openapi.Document)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/openapi.json"),
		)))
	}

	api := router.Group("/api")
	api.Use(middleware.RateLimiter(rateLimiter, log))
	{
		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}
