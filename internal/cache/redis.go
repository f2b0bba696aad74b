package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksolovey/unimatch/internal/config"
)

// TTL applied to every counter key. Refreshed on access so counters for
// active users stay warm.
const counterTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

// KeyForLikesReceived generates the Redis key for a user's received-likes count.
func (c *RedisCache) KeyForLikesReceived(userID int64) string {
	return fmt.Sprintf("likes:received:%d", userID)
}

// KeyForComplaintCount generates the Redis key for the complaint counter
// against a user.
func (c *RedisCache) KeyForComplaintCount(userID int64) string {
	return fmt.Sprintf("complaints:count:%d", userID)
}

// GetCounter reads a cached counter. Returns ok=false on a miss; refreshes
// the TTL on a hit.
func (c *RedisCache) GetCounter(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat unparsable values as a miss
	}
	_ = c.Client.Expire(ctx, key, counterTTL).Err()
	return n, true, nil
}

// SetCounter stores a counter with the standard TTL.
func (c *RedisCache) SetCounter(ctx context.Context, key string, count int64) error {
	return c.Client.Set(ctx, key, count, counterTTL).Err()
}

// BumpCounter increments a cached counter best-effort and refreshes its
// TTL. A missing key is left missing: Incr would seed it at 1 and shadow
// the real count, so absent counters are repopulated from the database on
// the next read instead.
func (c *RedisCache) BumpCounter(ctx context.Context, key string) {
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	_, _ = c.Client.Incr(ctx, key).Result()
	_ = c.Client.Expire(ctx, key, counterTTL).Err()
}
