package middleware

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-crud-service/pkg/logger"
	"user-crud-service/pkg/ratelimit"
)

// RateLimitInterceptor returns a gRPC unary interceptor sharing the HTTP
// token buckets, keyed by method and client IP. A nil or disabled limiter
// lets every call through.
func RateLimitInterceptor(limiter *ratelimit.Limiter, log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !limiter.Enabled() {
			return handler(ctx, req)
		}

		clientIP := getClientIP(ctx)
		if !limiter.Allow(ctx, info.FullMethod+":"+clientIP) {
			logger.WithContext(ctx, log).Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Float64("limit", limiter.RequestsPerSecond()),
			)
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %.2f requests/second", limiter.RequestsPerSecond())
		}

		return handler(ctx, req)
	}
}

// getClientIP extracts the client IP address from the gRPC context.
func getClientIP(ctx context.Context) string {
	// Proxies put the original client in metadata
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}

	return "unknown"
}
