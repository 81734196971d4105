package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
)

const testPrefix = "moneymentor:"

func setupTestRedis(t *testing.T) (*TokenCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTokenCache(client, testPrefix), mr
}

func TestTokenCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "refresh_token:42", "tok-1", time.Hour))

	got, err := cache.Get(ctx, "refresh_token:42")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	raw, err := mr.Get(testPrefix + "refresh_token:42")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", raw)
	assert.Equal(t, time.Hour, mr.TTL(testPrefix+"refresh_token:42"))
}

func TestTokenCache_SetOverwrites(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "refresh_token:42", "old", time.Hour))
	require.NoError(t, cache.Set(ctx, "refresh_token:42", "new", time.Hour))

	got, err := cache.Get(ctx, "refresh_token:42")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestTokenCache_SetRejectsNonPositiveTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	err := cache.Set(context.Background(), "k", "v", 0)
	assert.Error(t, err)
	assert.False(t, mr.Exists(testPrefix+"k"))
}

func TestTokenCache_Get_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "refresh_token:404")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
}

func TestTokenCache_Expiry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "password_reset:abc", "42", time.Hour))
	mr.FastForward(time.Hour + time.Second)

	_, err := cache.Get(ctx, "password_reset:abc")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	ok, err := cache.Exists(ctx, "password_reset:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenCache_DeleteIsIdempotent(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "refresh_token:42", "tok", time.Hour))

	ok, err := cache.Exists(ctx, "refresh_token:42")
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err := cache.Delete(ctx, "refresh_token:42")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = cache.Delete(ctx, "refresh_token:42")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTokenCache_Unreachable(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Ping(ctx))
	mr.Close()

	assert.Error(t, cache.Ping(ctx))

	_, err := cache.Get(ctx, "refresh_token:42")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = cache.Delete(ctx, "refresh_token:42")
	assert.Error(t, err)
}
