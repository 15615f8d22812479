package cache

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// l1TTLCap keeps process-local copies short-lived so a company that swaps
// its logo sees the new one soon on every instance
const l1TTLCap = time.Minute

// TieredAssetCache reads through a local L1 and a shared L2.
// L2 errors are logged and treated as misses: a cache outage must never
// fail a render.
type TieredAssetCache struct {
	l1     *InMemoryAssetCache
	l2     AssetCache
	logger *zap.Logger

	l1Hits   atomic.Int64
	l2Hits   atomic.Int64
	misses   atomic.Int64
	l2Errors atomic.Int64
}

// TieredStats is a snapshot of hit counters
type TieredStats struct {
	L1Hits   int64 `json:"l1_hits"`
	L2Hits   int64 `json:"l2_hits"`
	Misses   int64 `json:"misses"`
	L2Errors int64 `json:"l2_errors"`
}

// NewTieredAssetCache creates a two-tier cache
func NewTieredAssetCache(l1 *InMemoryAssetCache, l2 AssetCache, logger *zap.Logger) *TieredAssetCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredAssetCache{l1: l1, l2: l2, logger: logger}
}

// Get checks L1 then L2, promoting L2 hits into L1
func (c *TieredAssetCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	if data, ok, _ := c.l1.Get(ctx, url); ok {
		c.l1Hits.Add(1)
		return data, true, nil
	}

	data, ok, err := c.l2.Get(ctx, url)
	if err != nil {
		c.l2Errors.Add(1)
		c.logger.Warn("L2 asset cache read failed", zap.Error(err))
		c.misses.Add(1)
		return nil, false, nil
	}
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}

	c.l2Hits.Add(1)
	_ = c.l1.Set(ctx, url, data, l1TTLCap)
	return data, true, nil
}

// Set writes both tiers; the L1 copy expires no later than l1TTLCap
func (c *TieredAssetCache) Set(ctx context.Context, url string, data []byte, ttl time.Duration) error {
	_ = c.l1.Set(ctx, url, data, min(ttl, l1TTLCap))
	if err := c.l2.Set(ctx, url, data, ttl); err != nil {
		c.l2Errors.Add(1)
		c.logger.Warn("L2 asset cache write failed", zap.Error(err))
	}
	return nil
}

// Delete removes the entry from both tiers
func (c *TieredAssetCache) Delete(ctx context.Context, url string) error {
	_ = c.l1.Delete(ctx, url)
	return c.l2.Delete(ctx, url)
}

// Stats returns the hit counters
func (c *TieredAssetCache) Stats() TieredStats {
	return TieredStats{
		L1Hits:   c.l1Hits.Load(),
		L2Hits:   c.l2Hits.Load(),
		Misses:   c.misses.Load(),
		L2Errors: c.l2Errors.Load(),
	}
}

// Close stops the L1 cleanup goroutine
func (c *TieredAssetCache) Close() error {
	return c.l1.Close()
}

var _ AssetCache = (*TieredAssetCache)(nil)
