package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "user-crud-service/internal/adapter/gin/handler"
	ginrouter "user-crud-service/internal/adapter/gin/router"
	"user-crud-service/internal/config"
	"user-crud-service/pkg/ratelimit"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	cfg *config.Config,
	userHandler *ginhandler.UserHandler,
	systemHandler *ginhandler.SystemHandler,
	rateLimiter *ratelimit.Limiter,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(ginrouter.Config{
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		TrustedProxies: cfg.App.TrustedProxies,
		SwaggerEnabled: cfg.App.SwaggerEnabled,
	}, userHandler, systemHandler, rateLimiter, l)

	addr := cfg.App.HTTPAddress()
	l.Info("Gin REST API configured",
		zap.String("address", addr),
		zap.Strings("cors_allowed_origins", cfg.App.CORSAllowedOrigins),
		zap.Strings("trusted_proxies", cfg.App.TrustedProxies),
		zap.Bool("swagger_enabled", cfg.App.SwaggerEnabled),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
