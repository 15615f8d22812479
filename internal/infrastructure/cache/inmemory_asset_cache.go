package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxInMemoryBytes bounds the memory held by an InMemoryAssetCache
const DefaultMaxInMemoryBytes = 64 << 20

type assetEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryAssetCache implements AssetCache with a process-local map.
// When the byte budget is exceeded, expired entries are purged first and
// then the entries closest to expiry are evicted.
type InMemoryAssetCache struct {
	mu        sync.RWMutex
	entries   map[string]assetEntry
	size      int64
	maxBytes  int64
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryAssetCache creates a cache holding at most maxBytes of image data.
// It starts a background goroutine that purges expired entries.
func NewInMemoryAssetCache(maxBytes int64) *InMemoryAssetCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInMemoryBytes
	}
	c := &InMemoryAssetCache{
		entries:  make(map[string]assetEntry),
		maxBytes: maxBytes,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a live entry
func (c *InMemoryAssetCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[url]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores data, evicting older entries when over budget.
// Values larger than the whole budget are not cached.
func (c *InMemoryAssetCache) Set(_ context.Context, url string, data []byte, ttl time.Duration) error {
	n := int64(len(data))
	if n > c.maxBytes {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[url]; ok {
		c.size -= int64(len(old.data))
	}
	c.entries[url] = assetEntry{data: data, expiresAt: time.Now().Add(ttl)}
	c.size += n

	if c.size > c.maxBytes {
		c.purgeExpiredLocked()
	}
	for c.size > c.maxBytes {
		c.evictOldestLocked(url)
	}
	return nil
}

// Delete removes an entry
func (c *InMemoryAssetCache) Delete(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[url]; ok {
		c.size -= int64(len(e.data))
		delete(c.entries, url)
	}
	return nil
}

// Len returns the number of entries (for testing/monitoring)
func (c *InMemoryAssetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Size returns the bytes currently held
func (c *InMemoryAssetCache) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryAssetCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryAssetCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.purgeExpiredLocked()
			c.mu.Unlock()
		}
	}
}

func (c *InMemoryAssetCache) purgeExpiredLocked() {
	now := time.Now()
	for url, e := range c.entries {
		if now.After(e.expiresAt) {
			c.size -= int64(len(e.data))
			delete(c.entries, url)
		}
	}
}

// evictOldestLocked drops the entry expiring soonest, never keep
func (c *InMemoryAssetCache) evictOldestLocked(keep string) {
	var (
		victim string
		oldest time.Time
	)
	for url, e := range c.entries {
		if url == keep {
			continue
		}
		if victim == "" || e.expiresAt.Before(oldest) {
			victim, oldest = url, e.expiresAt
		}
	}
	if victim == "" {
		return
	}
	c.size -= int64(len(c.entries[victim].data))
	delete(c.entries, victim)
}

var _ AssetCache = (*InMemoryAssetCache)(nil)
