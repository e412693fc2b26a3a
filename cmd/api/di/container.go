package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-service/cmd/api/infrastructure"
	"user-crud-service/internal/adapter/db/sqlstore"
	ginhandler "user-crud-service/internal/adapter/gin/handler"
	grpcadapter "user-crud-service/internal/adapter/grpc"
	"user-crud-service/internal/config"
	"user-crud-service/pkg/ratelimit"
	redisclient "user-crud-service/pkg/redis"
)

// healthInterval is how often the gRPC health status is refreshed.
const healthInterval = 10 * time.Second

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	RedisClient   *redisclient.Client
	UserRepo      *sqlstore.UserRepo
	RateLimiter   *ratelimit.Limiter
	UserHandler   *ginhandler.UserHandler
	SystemHandler *ginhandler.SystemHandler
	Health        *grpcadapter.HealthChecker
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client, nil when not configured
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize repository
	repo := sqlstore.NewUserRepo(db, time.Duration(cfg.DB.PoolTimeoutSeconds)*time.Second, l)

	// Initialize rate limiter
	var limiterClient *redis.Client
	if rdb != nil {
		limiterClient = rdb.Client
	}
	rateLimiter := ratelimit.New(
		limiterClient,
		ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	// Initialize Gin handlers
	userHandler := ginhandler.NewUserHandler(repo, l)
	systemHandler := ginhandler.NewSystemHandler(ginhandler.ServiceInfo{
		Service:  cfg.Logger.ServiceName,
		Version:  cfg.Logger.ServiceVersion,
		Database: cfg.DB.Driver,
	}, repo, l)

	return &Container{
		Config:        cfg,
		Logger:        l,
		DB:            db,
		RedisClient:   rdb,
		UserRepo:      repo,
		RateLimiter:   rateLimiter,
		UserHandler:   userHandler,
		SystemHandler: systemHandler,
		Health:        grpcadapter.NewHealthChecker(repo, healthInterval, l),
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
