// Package cache is a JSON read-through cache on Redis.
//
// Without a reachable Redis every call degrades to a miss, so callers never
// branch on availability:
//
//	var list []models.CategoryView
//	err := cache.Remember(ctx, "categories:list", config.CacheTTL(), &list, func() (err error) {
//	    list, err = repo.ListActive(ctx)
//	    return err
//	})
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// RDB is nil until Connect succeeds.
var RDB *redis.Client

// Connect initialises the Redis client and verifies the connection with a ping.
// Returns an error so the caller can react (log warning, fall back, or abort).
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		RDB = nil // mark as unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the client.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
		}
		return false
	}

	return json.Unmarshal(val, dest) == nil
}

// Set stores value in Redis under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Forget removes one or more keys.
func Forget(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Remember loads key into dest, or calls fill to populate dest and stores
// the result. A failing cache write is logged, never returned.
func Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, fill func() error) error {
	if Get(ctx, key, dest) {
		metrics.RecordCache(key, true)
		return nil
	}
	metrics.RecordCache(key, false)

	if err := fill(); err != nil {
		return err
	}
	if err := Set(ctx, key, dest, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return nil
}
