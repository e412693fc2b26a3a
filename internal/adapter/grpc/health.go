package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the service key reported by the health server besides "".
const ServiceName = "user-crud-service"

// Pinger reports whether the store can hand out a working connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker keeps a grpc.health.v1 server in step with store reachability.
type HealthChecker struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
}

// NewHealthChecker creates a health checker polling pinger every interval.
func NewHealthChecker(pinger Pinger, interval time.Duration, log *zap.Logger) *HealthChecker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthChecker{
		server:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		timeout:  interval / 2,
		log:      log,
	}
}

// Server returns the health server to register on a grpc.Server.
func (h *HealthChecker) Server() healthpb.HealthServer {
	return h.server
}

// Check pings the store once and publishes the result.
func (h *HealthChecker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(ctx); err != nil {
		h.log.Warn("store health check failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run checks immediately and then every interval until ctx is done. On return
// every service is reported NOT_SERVING.
func (h *HealthChecker) Run(ctx context.Context) {
	h.Check(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
