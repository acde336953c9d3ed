package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"aiso/tripdesk/internal/config"
	"aiso/tripdesk/internal/logging"
)

// NewRedisClient builds the client shared by the redis store and candidate cache.
// A failed ping is logged, not fatal: the pool keeps retrying.
func NewRedisClient(cfg *config.Config) *redis.Client {
	addr := cfg.RedisAddr()
	logging.Info("Initializing Redis client", "addr", addr, "db", cfg.RedisDB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Error("Failed to ping Redis", "addr", addr, "error", err)
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
