package prefs

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// RedisStore keeps preferences as JSON strings under prefix-scoped keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) LoadFilters(ctx context.Context) (models.Filters, error) {
	var f models.Filters
	err := s.load(ctx, "prefs:filters", &f)
	return f, err
}

func (s *RedisStore) SaveFilters(ctx context.Context, f models.Filters) error {
	return s.save(ctx, "prefs:filters", f)
}

func (s *RedisStore) LoadConfig(ctx context.Context) (models.AnalyticsConfig, error) {
	var c models.AnalyticsConfig
	err := s.load(ctx, "prefs:config", &c)
	return c, err
}

func (s *RedisStore) SaveConfig(ctx context.Context, c models.AnalyticsConfig) error {
	return s.save(ctx, "prefs:config", c)
}

func (s *RedisStore) load(ctx context.Context, key string, dst any) error {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (s *RedisStore) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, b, 0).Err()
}
