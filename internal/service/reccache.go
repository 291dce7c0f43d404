package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no cached recommendation list exists.
var ErrCacheMiss = errors.New("recommendation cache miss")

// recommendationTTL is how long a cached list stays valid. New orders and
// reviews do NOT invalidate it; only expiry or an explicit refresh does.
const recommendationTTL = 24 * time.Hour

// RecommendationCache stores the ordered menu item ids last recommended to
// a user. Callers are expected to treat read errors as misses and write
// errors as no-ops.
type RecommendationCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Put(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// RedisRecommendationCache keeps one key per user with a 24h TTL,
// overwritten wholesale on every refresh.
type RedisRecommendationCache struct {
	client *redis.Client
}

func NewRedisRecommendationCache(client *redis.Client) *RedisRecommendationCache {
	return &RedisRecommendationCache{client: client}
}

func cacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("recommendations:%s", userID)
}

func (c *RedisRecommendationCache) Get(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	data, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *RedisRecommendationCache) Put(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) error {
	data, err := json.Marshal(itemIDs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(userID), data, recommendationTTL).Err()
}

func (c *RedisRecommendationCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, cacheKey(userID)).Err()
}
