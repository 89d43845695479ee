package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares analysis results between server instances. The client
// is owned by the caller.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

func NewRedisCache(client *redis.Client, prefix string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (c *RedisCache) prefixKey(key string) string {
	return c.prefix + key
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, c.prefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	return c.client.Set(ctx, c.prefixKey(key), value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefixKey(key)).Err()
}

func (c *RedisCache) Close() error { return nil }
