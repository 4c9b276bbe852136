package repository

import (
	"context"
	"fmt"
	"time"

	"recepce/internal/config"
	"recepce/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisSlotLocker implements the per-slot booking lock on Redis using
// SET NX with a TTL. The lock token is owned by the whole instance, not
// per request: Release deletes the key unconditionally, which is fine
// because a slot is only released by the request that acquired it.
type RedisSlotLocker struct {
	client *redis.Client
}

// NewRedisClient builds a Redis client from the configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisSlotLocker(client *redis.Client) *RedisSlotLocker {
	return &RedisSlotLocker{client: client}
}

func slotKey(slot models.Slot) string {
	return fmt.Sprintf("slot_lock:%s", slot.Start.UTC().Format("2006-01-02T15:04"))
}

func (r *RedisSlotLocker) Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	ok, err := r.client.SetNX(ctx, slotKey(slot), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return ok, nil
}

func (r *RedisSlotLocker) Release(ctx context.Context, slot models.Slot) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, slotKey(slot)).Err(); err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close shuts down the Redis connection if one was created.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
