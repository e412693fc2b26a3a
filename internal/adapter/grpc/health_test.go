package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakePinger struct {
	down atomic.Bool
}

func (p *fakePinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("store unavailable")
	}
	return nil
}

func setupHealthClient(t *testing.T, hc *HealthChecker) healthpb.HealthClient {
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hc.Server())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestHealthChecker_Check(t *testing.T) {
	pinger := &fakePinger{}
	hc := NewHealthChecker(pinger, time.Second, zaptest.NewLogger(t))
	client := setupHealthClient(t, hc)
	ctx := context.Background()

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.Check(ctx))
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	pinger.down.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, hc.Check(ctx))
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealthChecker_Run(t *testing.T) {
	pinger := &fakePinger{}
	hc := NewHealthChecker(pinger, 20*time.Millisecond, zaptest.NewLogger(t))
	client := setupHealthClient(t, hc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hc.Run(ctx)
		close(done)
	}()

	statusOf := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	assert.Eventually(t, func() bool {
		return statusOf() == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	pinger.down.Store(true)
	assert.Eventually(t, func() bool {
		return statusOf() == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)

	pinger.down.Store(false)
	cancel()
	<-done
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf())
}
