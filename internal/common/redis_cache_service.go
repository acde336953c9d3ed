package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheService implements CacheInterface using Redis
type RedisCacheService struct {
	client *redis.Client
	prefix string
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService wraps a shared client. Every key is namespaced with prefix.
func NewRedisCacheService(client *redis.Client, prefix string) *RedisCacheService {
	return &RedisCacheService{
		client: client,
		prefix: prefix,
	}
}

// Set stores a value in Redis with the given key and duration
func (r *RedisCacheService) Set(ctx context.Context, key string, value any, duration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis cache: marshal %s: %w", key, err)
	}

	if err := r.client.Set(ctx, r.prefix+key, data, duration).Err(); err != nil {
		return fmt.Errorf("redis cache: set %s: %w", key, err)
	}
	return nil
}

// Get retrieves a value from Redis by key
func (r *RedisCacheService) Get(ctx context.Context, key string, out any) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("redis cache: unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Delete removes a value from Redis by key
func (r *RedisCacheService) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis cache: delete %s: %w", key, err)
	}
	return nil
}

// TTL returns the remaining time to live of a key
func (r *RedisCacheService) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.client.TTL(ctx, r.prefix+key).Result()
}

// Close is a no-op: the client is shared with the store and closed by its owner.
func (r *RedisCacheService) Close() error {
	return nil
}
