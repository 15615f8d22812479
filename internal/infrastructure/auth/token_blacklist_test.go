package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cotizador/backend/internal/infrastructure/auth"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ExpirationCleanup(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-expire", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-expire")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_UserTokenInvalidation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()
	issuedBefore := time.Now().Add(-time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, invalidated)

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, invalidated, "tokens issued after the reset stay valid")

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_UserRevocationExpires(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-3", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-3", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_Concurrent(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	done := make(chan struct{})
	for i := range 10 {
		go func() {
			defer func() { done <- struct{}{} }()
			jti := fmt.Sprintf("jti-%d", i)
			_ = blacklist.AddToBlacklist(ctx, jti, time.Hour)
			_, _ = blacklist.IsBlacklisted(ctx, jti)
		}()
	}
	for range 10 {
		<-done
	}

	for i := range 10 {
		revoked, err := blacklist.IsBlacklisted(ctx, fmt.Sprintf("jti-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}

func TestRedisTokenBlacklist_WrapsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	blacklist := auth.NewRedisTokenBlacklist(client)
	ctx := context.Background()

	err := blacklist.AddToBlacklist(ctx, "jti", time.Minute)
	assert.ErrorContains(t, err, "failed to add token to blacklist")

	_, err = blacklist.IsBlacklisted(ctx, "jti")
	assert.ErrorContains(t, err, "failed to check token blacklist")

	_, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", time.Now())
	assert.ErrorContains(t, err, "failed to check user token invalidation")
}

func TestTokenBlacklist_Interface(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
}
