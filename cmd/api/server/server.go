package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	ginhandler "user-crud-service/internal/adapter/gin/handler"
	grpcadapter "user-crud-service/internal/adapter/grpc"
	"user-crud-service/internal/config"
	"user-crud-service/pkg/ratelimit"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
	GRPC   *grpc.Server
	Health *grpcadapter.HealthChecker
}

// New creates a new server instance. The gRPC health server is only set up
// when GRPC_PORT is configured.
func New(
	cfg *config.Config,
	l *zap.Logger,
	userHandler *ginhandler.UserHandler,
	systemHandler *ginhandler.SystemHandler,
	rateLimiter *ratelimit.Limiter,
	health *grpcadapter.HealthChecker,
) *Server {
	s := &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(cfg, userHandler, systemHandler, rateLimiter, l),
	}
	if cfg.App.GRPCPort != "" && health != nil {
		s.Health = health
		s.GRPC = SetupGRPC(health, rateLimiter, l)
	}
	return s
}

// Run serves until ctx is canceled or a server fails, then shuts every
// server down.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}

	ginLis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Gin.Addr, err)
	}

	var grpcLis net.Listener
	if s.GRPC != nil {
		grpcLis, err = lc.Listen(ctx, "tcp", s.grpcAddress())
		if err != nil {
			_ = ginLis.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.grpcAddress(), err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", ginLis.Addr().String()))
		if err := s.Gin.Serve(ginLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gin server: %w", err)
		}
		return nil
	})

	if s.GRPC != nil {
		g.Go(func() error {
			s.Logger.Info("gRPC server running", zap.String("address", grpcLis.Addr().String()))
			if err := s.GRPC.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			s.Health.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// shutdown stops the servers within the configured timeout.
func (s *Server) shutdown() error {
	timeout := time.Duration(s.Config.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))

	var errs []error

	s.Logger.Info("shutting down Gin server...")
	if err := s.Gin.Shutdown(ctx); err != nil {
		s.Logger.Error("failed to shutdown Gin server", zap.Error(err))
		errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
	}

	if s.GRPC != nil {
		s.Logger.Info("shutting down gRPC server...")
		stopped := make(chan struct{})
		go func() {
			s.GRPC.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.GRPC.Stop()
			errs = append(errs, fmt.Errorf("grpc shutdown: %w", ctx.Err()))
		}
	}

	return errors.Join(errs...)
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return s.Config.App.HTTPHost + ":" + s.Config.App.GRPCPort
}
