package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
)

// TokenCache implements repository.TokenCache using Redis. Every key is
// stored under prefix.
type TokenCache struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenCache creates a Redis-backed token cache. An empty prefix stores
// keys as given.
func NewTokenCache(client redis.UniversalClient, prefix string) *TokenCache {
	return &TokenCache{client: client, prefix: prefix}
}

// Set stores value under key with the given TTL. A non-positive TTL is
// rejected since every token entry must expire.
func (c *TokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis set %s: ttl must be positive, got %s", key, ttl)
	}
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Get returns the value under key.
func (c *TokenCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Delete removes key and reports whether it was present.
func (c *TokenCache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Del(ctx, c.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis del %s: %w", key, err)
	}
	return n > 0, nil
}

// Exists reports whether key is present and unexpired.
func (c *TokenCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Ping checks Redis connectivity.
func (c *TokenCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
