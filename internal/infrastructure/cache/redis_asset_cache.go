package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAssetCache implements AssetCache on Redis so every instance shares
// fetched images
type RedisAssetCache struct {
	client redis.UniversalClient
}

// NewRedisAssetCache creates a cache on a shared Redis client
func NewRedisAssetCache(client redis.UniversalClient) *RedisAssetCache {
	return &RedisAssetCache{client: client}
}

// Get reads the bytes stored for url
func (c *RedisAssetCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, assetKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached asset: %w", err)
	}
	return data, true, nil
}

// Set stores data for url with a TTL
func (c *RedisAssetCache) Set(ctx context.Context, url string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, assetKey(url), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache asset: %w", err)
	}
	return nil
}

// Delete removes the entry for url
func (c *RedisAssetCache) Delete(ctx context.Context, url string) error {
	if err := c.client.Del(ctx, assetKey(url)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached asset: %w", err)
	}
	return nil
}

var _ AssetCache = (*RedisAssetCache)(nil)
