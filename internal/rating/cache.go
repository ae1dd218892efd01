package rating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rating summaries keyed by caregiver id. A miss is not
// an error.
type Cache interface {
	Get(ctx context.Context, doctorID int64) (Summary, bool, error)
	Set(ctx context.Context, doctorID int64, s Summary) error
}

// RedisCache backs the summary cache with Redis. Entries expire after
// the configured TTL so a dead refresher cannot serve stale ratings
// forever.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection before
// returning.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, doctorID int64) (Summary, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(doctorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Summary{}, false, nil
	}
	if err != nil {
		return Summary{}, false, err
	}
	var s Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return Summary{}, false, err
	}
	return s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, doctorID int64, s Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(doctorID), raw, c.ttl).Err()
}

func (c *RedisCache) Close() error { return c.client.Close() }

func cacheKey(doctorID int64) string {
	return fmt.Sprintf("rating:summary:%d", doctorID)
}
