package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "user-crud-service/internal/adapter/grpc"
	"user-crud-service/internal/adapter/grpc/middleware"
	"user-crud-service/pkg/logger"
	"user-crud-service/pkg/ratelimit"
)

// SetupGRPC creates the gRPC server exposing grpc.health.v1 backed by hc.
func SetupGRPC(hc *grpcadapter.HealthChecker, rateLimiter *ratelimit.Limiter, l *zap.Logger) *grpc.Server {
	// Create gRPC server with request ID and rate limit interceptors
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(l),
			middleware.RateLimitInterceptor(rateLimiter, l),
		),
	)
	healthpb.RegisterHealthServer(grpcServer, hc.Server())

	return grpcServer
}
