package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"user-crud-service/internal/config"
	redisclient "user-crud-service/pkg/redis"
)

// NewRedisClient connects to Redis when it is configured. It returns a nil
// client when REDIS_HOST is empty.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled() {
		l.Info("Redis not configured, rate limiting stays in-process")
		return nil, nil
	}

	rdb, err := redisclient.NewClient(ctx, redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
