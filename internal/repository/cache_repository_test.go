package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aligarduo/Naive-Dev/internal/models"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
)

func newTestCache(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCacheRepository(client, zap.NewNop()), mr
}

func TestCacheSetGetRoundtrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, cache.Set(ctx, "k", payload{Name: "alice", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "alice", Count: 3}, got)
}

func TestCacheGetMissingKey(t *testing.T) {
	cache, _ := newTestCache(t)

	var dest map[string]string
	err := cache.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	_, err = cache.GetString(context.Background(), "absent")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheStringRoundtrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetString(ctx, "code", "1234", 5*time.Minute))

	got, err := cache.GetString(ctx, "code")
	require.NoError(t, err)
	assert.Equal(t, "1234", got)
	assert.Equal(t, 5*time.Minute, mr.TTL("code"))
}

func TestCacheSetOverwritesAndResetsTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetString(ctx, "k", "old", time.Minute))
	require.NoError(t, cache.SetString(ctx, "k", "new", time.Hour))

	got, err := cache.GetString(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
	assert.Equal(t, time.Hour, mr.TTL("k"))
}

func TestCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetString(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := cache.GetString(ctx, "k")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRemove(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetString(ctx, "k", "v", time.Minute))
	require.NoError(t, cache.Remove(ctx, "k"))

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	// Removing an absent key is a no-op, not an error.
	require.NoError(t, cache.Remove(ctx, "k"))
}

func TestCacheExists(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.SetString(ctx, "k", "v", time.Minute))
	exists, err = cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCacheKeyFormats(t *testing.T) {
	assert.Equal(t, "Android:alice:access_token", TokenKey(models.AccessToken, "Android", "alice"))
	assert.Equal(t, "iPhone:alice:refresh_token", TokenKey(models.RefreshToken, "iPhone", "alice"))
	assert.Equal(t, "Android:alice:active", ActiveKey("Android", "alice"))
	assert.Equal(t, "email_verify_code:a@b.com", VerifyCodeKey("a@b.com"))
}
