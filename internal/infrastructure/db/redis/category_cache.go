package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blogsphere/blog-api/internal/api/metrics"
	"github.com/blogsphere/blog-api/internal/core/domain"
)

const categoriesKey = "blogs:categories"

// store is the subset of the Redis client used by the cache.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CategoryCache keeps the category aggregation in Redis between blog writes.
type CategoryCache struct {
	client store
	ttl    time.Duration
}

func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	return newCategoryCache(client, ttl)
}

func newCategoryCache(client store, ttl time.Duration) *CategoryCache {
	return &CategoryCache{client: client, ttl: ttl}
}

// Get reports a miss with ok=false and no error.
func (c *CategoryCache) Get(ctx context.Context) ([]domain.CategorySummary, bool, error) {
	raw, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CategoryCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		metrics.CategoryCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("category cache get: %w", err)
	}

	var categories []domain.CategorySummary
	if err := json.Unmarshal(raw, &categories); err != nil {
		metrics.CategoryCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("category cache decode: %w", err)
	}
	metrics.CategoryCacheTotal.WithLabelValues("hit").Inc()
	return categories, true, nil
}

func (c *CategoryCache) Set(ctx context.Context, categories []domain.CategorySummary) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	if err := c.client.Set(ctx, categoriesKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("category cache set: %w", err)
	}
	return nil
}

func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		return fmt.Errorf("category cache invalidate: %w", err)
	}
	return nil
}
