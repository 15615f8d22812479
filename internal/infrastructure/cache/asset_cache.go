// Package cache holds caches for remote document assets (company logos and
// representative signatures) so repeated renders of the same company do not
// refetch them on every request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// AssetCache stores the normalized bytes of a fetched image by source URL
type AssetCache interface {
	// Get returns the cached bytes for url; ok is false on a miss
	Get(ctx context.Context, url string) (data []byte, ok bool, err error)

	// Set stores data for url for ttl
	Set(ctx context.Context, url string, data []byte, ttl time.Duration) error

	// Delete drops the entry for url, used when a company changes its images
	Delete(ctx context.Context, url string) error
}

const assetKeyPrefix = "cotizador:asset:"

// assetKey hashes the URL so signed URLs with long query strings stay bounded
func assetKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return assetKeyPrefix + hex.EncodeToString(sum[:])
}

// NopAssetCache is used when image caching is disabled
type NopAssetCache struct{}

// Get always misses
func (NopAssetCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value
func (NopAssetCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op
func (NopAssetCache) Delete(context.Context, string) error { return nil }

var _ AssetCache = NopAssetCache{}
