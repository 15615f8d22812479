package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cotizador/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewAssetCache picks the asset cache for the configuration:
// disabled gives a no-op, no Redis gives a local cache, and with Redis
// a tiered cache shares images across instances.
func NewAssetCache(cfg config.ImageCacheConfig, client redis.UniversalClient, logger *zap.Logger) AssetCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("Image asset cache disabled")
		return NopAssetCache{}
	}
	if client == nil {
		logger.Info("Using in-memory image asset cache")
		return NewInMemoryAssetCache(DefaultMaxInMemoryBytes)
	}
	logger.Info("Using tiered image asset cache (memory + Redis)")
	return NewTieredAssetCache(NewInMemoryAssetCache(DefaultMaxInMemoryBytes), NewRedisAssetCache(client), logger)
}
