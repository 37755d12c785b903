package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache maps token keys to user ids in front of the database
type TokenCache interface {
	// Get reports ok=false on a miss
	Get(ctx context.Context, key string) (userID uint, ok bool, err error)
	Set(ctx context.Context, key string, userID uint) error
	Delete(ctx context.Context, key string) error
}

// RedisTokenCache stores entries as token:<key> with a fixed TTL
type RedisTokenCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisTokenCache(client *redis.Client, ttl time.Duration) *RedisTokenCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisTokenCache{client: client, ttl: ttl, prefix: "token"}
}

func (c *RedisTokenCache) redisKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *RedisTokenCache) Get(ctx context.Context, key string) (uint, bool, error) {
	val, err := c.client.Get(ctx, c.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt token cache entry: %w", err)
	}
	return uint(id), true, nil
}

func (c *RedisTokenCache) Set(ctx context.Context, key string, userID uint) error {
	return c.client.Set(ctx, c.redisKey(key), strconv.FormatUint(uint64(userID), 10), c.ttl).Err()
}

func (c *RedisTokenCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.redisKey(key)).Err()
}

// NopTokenCache always misses. Used when Redis is not configured.
type NopTokenCache struct{}

func (NopTokenCache) Get(context.Context, string) (uint, bool, error) { return 0, false, nil }
func (NopTokenCache) Set(context.Context, string, uint) error         { return nil }
func (NopTokenCache) Delete(context.Context, string) error            { return nil }
