package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDHeader is the header (and gRPC metadata key) carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// NormalizeRequestID returns the canonical form of a caller-supplied request
// ID, or a fresh one when the value is not a UUID.
func NormalizeRequestID(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.New().String()
}

// RequestIDInterceptor is a gRPC interceptor that puts a request ID into the
// context, reusing the caller's x-request-id metadata when it is a UUID, and
// logs the call outcome.
func RequestIDInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		requestID = NormalizeRequestID(requestID)

		ctx = ContextWithRequestID(ctx, requestID)

		resp, err := handler(ctx, req)
		if err != nil {
			WithContext(ctx, log).Warn("grpc call failed", zap.String("method", info.FullMethod), zap.Error(err))
		} else {
			WithContext(ctx, log).Debug("grpc call", zap.String("method", info.FullMethod))
		}
		return resp, err
	}
}
