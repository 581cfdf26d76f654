package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGateway implements Gateway on a shared Redis instance so that the
// rate budget holds across processes.
type RedisGateway struct {
	client *redis.Client
}

func NewRedisGateway(url string) (*RedisGateway, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisGateway{client: client}, nil
}

func (g *RedisGateway) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	if count == 1 {
		if err := g.client.Expire(ctx, key, window).Err(); err != nil {
			return RateLimitResult{}, fmt.Errorf("failed to arm rate counter expiry: %w", err)
		}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
	}, nil
}

func (g *RedisGateway) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := g.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value for %s: %w", key, err)
	}
	return true, nil
}

func (g *RedisGateway) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	if err := g.client.SetEx(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (g *RedisGateway) Close() error {
	return g.client.Close()
}
