package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cotizador/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const logoURL = "https://cdn.example.com/acme/logo.png"

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAssetKey(t *testing.T) {
	key := assetKey(logoURL)

	assert.True(t, strings.HasPrefix(key, assetKeyPrefix))
	assert.Len(t, key, len(assetKeyPrefix)+64)
	assert.Equal(t, key, assetKey(logoURL))
	assert.NotEqual(t, key, assetKey(logoURL+"?v=2"))
}

func TestInMemoryAssetCache_GetSet(t *testing.T) {
	c := NewInMemoryAssetCache(0)
	defer c.Close()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, logoURL)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, logoURL, []byte("png"), time.Hour))
	data, ok, err := c.Get(ctx, logoURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, int64(3), c.Size())

	require.NoError(t, c.Set(ctx, logoURL, []byte("jpeg!"), time.Hour))
	assert.Equal(t, int64(5), c.Size(), "overwrites replace the old size")

	require.NoError(t, c.Delete(ctx, logoURL))
	assert.Zero(t, c.Len())
	assert.Zero(t, c.Size())
}

func TestInMemoryAssetCache_Expiry(t *testing.T) {
	c := NewInMemoryAssetCache(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, logoURL, []byte("png"), 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := c.Get(ctx, logoURL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryAssetCache_EvictsWhenOverBudget(t *testing.T) {
	c := NewInMemoryAssetCache(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("aaaa"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("bbbb"), time.Hour))
	require.NoError(t, c.Set(ctx, "c", []byte("cccc"), time.Hour))

	assert.LessOrEqual(t, c.Size(), int64(10))
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok, "entry expiring soonest is evicted")
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok, "the value just written is kept")

	require.NoError(t, c.Set(ctx, "huge", make([]byte, 11), time.Hour))
	_, ok, _ = c.Get(ctx, "huge")
	assert.False(t, ok, "values over the budget are not cached")
}

func TestInMemoryAssetCache_CloseIsIdempotent(t *testing.T) {
	c := NewInMemoryAssetCache(0)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNopAssetCache(t *testing.T) {
	var c AssetCache = NopAssetCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, logoURL, []byte("png"), time.Hour))
	_, ok, err := c.Get(ctx, logoURL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisAssetCache_WrapsErrors(t *testing.T) {
	c := NewRedisAssetCache(unreachableRedis(t))
	ctx := context.Background()

	_, _, err := c.Get(ctx, logoURL)
	assert.ErrorContains(t, err, "failed to read cached asset")
	assert.ErrorContains(t, c.Set(ctx, logoURL, []byte("x"), time.Minute), "failed to cache asset")
	assert.ErrorContains(t, c.Delete(ctx, logoURL), "failed to delete cached asset")
}

// stubCache is an L2 recording calls
type stubCache struct {
	data map[string][]byte
	gets int
}

func (s *stubCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	s.gets++
	d, ok := s.data[url]
	return d, ok, nil
}

func (s *stubCache) Set(_ context.Context, url string, data []byte, _ time.Duration) error {
	s.data[url] = data
	return nil
}

func (s *stubCache) Delete(_ context.Context, url string) error {
	delete(s.data, url)
	return nil
}

func TestTieredAssetCache_PromotesL2Hits(t *testing.T) {
	l2 := &stubCache{data: map[string][]byte{logoURL: []byte("png")}}
	c := NewTieredAssetCache(NewInMemoryAssetCache(0), l2, nil)
	defer c.Close()
	ctx := context.Background()

	data, ok, err := c.Get(ctx, logoURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("png"), data)

	_, ok, _ = c.Get(ctx, logoURL)
	assert.True(t, ok)
	assert.Equal(t, 1, l2.gets, "second read is served from L1")

	_, ok, _ = c.Get(ctx, "https://cdn.example.com/other.png")
	assert.False(t, ok)

	assert.Equal(t, TieredStats{L1Hits: 1, L2Hits: 1, Misses: 1}, c.Stats())
}

func TestTieredAssetCache_WritesAndDeletesBothTiers(t *testing.T) {
	l2 := &stubCache{data: map[string][]byte{}}
	l1 := NewInMemoryAssetCache(0)
	c := NewTieredAssetCache(l1, l2, nil)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, logoURL, []byte("png"), time.Hour))
	assert.Equal(t, []byte("png"), l2.data[logoURL])
	assert.Equal(t, 1, l1.Len())

	require.NoError(t, c.Delete(ctx, logoURL))
	assert.Empty(t, l2.data)
	assert.Zero(t, l1.Len())
}

func TestTieredAssetCache_L2OutageIsAMiss(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := NewTieredAssetCache(NewInMemoryAssetCache(0), NewRedisAssetCache(unreachableRedis(t)), zap.New(core))
	defer c.Close()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, logoURL)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, logoURL, []byte("png"), time.Hour))
	data, ok, err := c.Get(ctx, logoURL)
	require.NoError(t, err)
	assert.True(t, ok, "L1 still serves while Redis is down")
	assert.Equal(t, []byte("png"), data)

	assert.Equal(t, int64(2), c.Stats().L2Errors)
	assert.Equal(t, 2, logs.Len())
}

func TestNewAssetCache(t *testing.T) {
	assert.IsType(t, NopAssetCache{}, NewAssetCache(config.ImageCacheConfig{}, nil, nil))

	local := NewAssetCache(config.ImageCacheConfig{Enabled: true}, nil, nil)
	require.IsType(t, &InMemoryAssetCache{}, local)
	_ = local.(*InMemoryAssetCache).Close()

	tiered := NewAssetCache(config.ImageCacheConfig{Enabled: true}, unreachableRedis(t), zap.NewNop())
	require.IsType(t, &TieredAssetCache{}, tiered)
	_ = tiered.(*TieredAssetCache).Close()
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.ErrorContains(t, err, "failed to connect to Redis at 127.0.0.1:1")
}
