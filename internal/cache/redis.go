package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rights:decision:"

// RedisCache shares cached decisions across service instances. All
// operations are best-effort: any Redis error degrades to a cache miss.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opt)}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (bool, bool) {
	value, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return false, false
	}
	return value == "1", true
}

func (c *RedisCache) Set(ctx context.Context, key string, allowed bool, ttl time.Duration) {
	value := "0"
	if allowed {
		value = "1"
	}
	_ = c.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}

// Purge is a no-op: Redis evicts entries through their TTL.
func (c *RedisCache) Purge(_ context.Context) {}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
