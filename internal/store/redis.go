// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis stores keys in a Redis database under a prefix, so several
// machines can share one favorites list.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis connects to the server and pings it once.
func NewRedis(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*Redis, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis store: empty address")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis store: ping %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, prefix: opts.Prefix, logger: logger}, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get implements KeyValueStore.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("STORE_REDIS_MISS", "key", key)
		return "", false, nil
	}
	if err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return "", false, ErrClosed
		}
		r.logger.Error("STORE_REDIS_GET_FAILED", "key", key, "error", err)
		return "", false, fmt.Errorf("redis store: get %q: %w", key, err)
	}
	return val, true, nil
}

// Set implements KeyValueStore. Values never expire.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return ErrClosed
		}
		r.logger.Error("STORE_REDIS_SET_FAILED", "key", key, "error", err)
		return fmt.Errorf("redis store: set %q: %w", key, err)
	}
	return nil
}

// Close implements KeyValueStore.
func (r *Redis) Close() error {
	return r.client.Close()
}
