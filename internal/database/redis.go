package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"schedule-service/internal/config"
)

// InitRedis connects to Redis when an address is configured. Redis is
// an optional event mirror here; a nil client is a valid state and
// every caller tolerates it.
func InitRedis(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("redis not configured, event mirroring disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, event mirroring disabled", zap.Error(err))
		return nil
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))
	return client
}
