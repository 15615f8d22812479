package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "cotizador:token:blacklist:"

// TokenBlacklist revokes tokens before they expire. Logout revokes one
// token by its JTI. Deleting a user or resetting a password revokes every
// token issued to the user up to that moment.
type TokenBlacklist interface {
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist revokes what userID holds now; ttl should
	// cover the longest token lifetime.
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

func jtiKey(jti string) string { return blacklistKeyPrefix + "jti:" + jti }

func userKey(userID string) string { return blacklistKeyPrefix + "user:" + userID }

// revokedAt compares at second precision, the precision of a JWT iat.
// A token issued in the same second as the revocation counts as revoked.
func revokedAt(cutoff int64, issuedAt time.Time) bool {
	return issuedAt.Unix() <= cutoff
}

// RedisTokenBlacklist shares revocations between instances. Keys expire
// with the tokens they revoke.
type RedisTokenBlacklist struct {
	client redis.UniversalClient
}

func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jtiKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	cutoff, err := b.client.Get(ctx, userKey(userID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}
	return revokedAt(cutoff, tokenIssuedAt), nil
}

// InMemoryTokenBlacklist keeps revocations in process memory. It backs a
// single instance running without Redis; a restart forgets every entry.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]revocation
	now     func() time.Time
}

type revocation struct {
	cutoff  int64 // unix seconds, user entries only
	expires time.Time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		entries: make(map[string]revocation),
		now:     time.Now,
	}
}

func (b *InMemoryTokenBlacklist) put(key string, r revocation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = r
}

// get returns a live entry and drops it once expired
func (b *InMemoryTokenBlacklist) get(key string) (revocation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.entries[key]
	if !ok {
		return revocation{}, false
	}
	if b.now().After(r.expires) {
		delete(b.entries, key)
		return revocation{}, false
	}
	return r, true
}

func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.put(jtiKey(jti), revocation{expires: b.now().Add(ttl)})
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.get(jtiKey(jti))
	return ok, nil
}

func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, ttl time.Duration) error {
	now := b.now()
	b.put(userKey(userID), revocation{cutoff: now.Unix(), expires: now.Add(ttl)})
	return nil
}

func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	r, ok := b.get(userKey(userID))
	if !ok {
		return false, nil
	}
	return revokedAt(r.cutoff, tokenIssuedAt), nil
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)
