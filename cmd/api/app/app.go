package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"go.uber.org/zap"

	"user-crud-service/cmd/api/di"
	"user-crud-service/cmd/api/server"
	"user-crud-service/internal/config"
	"user-crud-service/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New creates a new application instance
func New(ctx context.Context) (*App, error) {
	// Load configuration
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Create DI container
	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		_ = l.Sync()
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	// Create server instance
	srv := server.New(cfg, l,
		container.UserHandler,
		container.SystemHandler,
		container.RateLimiter,
		container.Health,
	)

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    srv,
		Container: container,
	}, nil
}

// Run serves until ctx is canceled, then releases every resource.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.Logger.Environment),
		zap.String("database", a.Config.DB.Driver),
	)

	var errs []error
	if err := a.Server.Run(ctx); err != nil {
		a.Logger.Error("server error", zap.Error(err))
		errs = append(errs, err)
	}

	// Close container resources
	a.Logger.Info("closing container resources...")
	if err := a.Container.Close(); err != nil {
		a.Logger.Error("failed to close container", zap.Error(err))
		errs = append(errs, fmt.Errorf("container close: %w", err))
	}

	a.Logger.Info("application shutdown complete")

	// Sync errors on stdout/stderr are expected
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.Logger.Environment,
	})
}

// getConfigPath returns the directory holding app.env
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
