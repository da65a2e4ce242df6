// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOpTimeout bounds each call; the store interface is synchronous.
const redisOpTimeout = 3 * time.Second

// redisBackend shares the token between processes on different hosts,
// e.g. several headless agents acting as the same user.
type redisBackend struct {
	client redis.UniversalClient
	prefix string
}

func newRedisBackend(addr, prefix string) (*redisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &redisBackend{client: client, prefix: prefix}, nil
}

// NewRedis wraps an existing client. Keys are stored as prefix+key.
func NewRedis(client redis.UniversalClient, prefix string) Backend {
	return &redisBackend{client: client, prefix: prefix}
}

func (r *redisBackend) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *redisBackend) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *redisBackend) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}
