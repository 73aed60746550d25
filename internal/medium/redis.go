package medium

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// Redis stores each key as a Redis string, optionally namespaced by a prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the configured server and verifies it with PING.
func NewRedis(cfg types.RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, types.ErrRedisAddrEmpty
	}

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = types.DefaultRedisDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client, prefix: cfg.Prefix}, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get returns the value stored under key.
func (r *Redis) Get(key string) (string, bool, error) {
	v, err := r.client.Get(context.Background(), r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set overwrites the value stored under key.
func (r *Redis) Set(key, value string) error {
	if err := r.client.Set(context.Background(), r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. A missing key is not an error.
func (r *Redis) Remove(key string) error {
	if err := r.client.Del(context.Background(), r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close releases the connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
