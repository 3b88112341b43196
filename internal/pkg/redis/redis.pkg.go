package redis

import (
	"context"
	"errors"
	"fmt"
	"idea-inbox/internal/pkg/logger"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

// Setup opens a pooled client and fails fast when the server is unreachable.
func Setup(ctx context.Context, config *Config) (IRedis, error) {
	dialTimeout := config.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	r := &Client{
		client: _redis.NewClient(&_redis.Options{
			Addr:        fmt.Sprintf("%s:%d", config.Host, config.Port),
			Password:    config.Password,
			PoolSize:    config.PoolSize,
			DialTimeout: dialTimeout,
		}),
	}

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		_ = r.client.Close()
		logger.Error.WithError(err).WithField("addr", r.client.Options().Addr).Println("redis unreachable")
		return nil, err
	}

	return r, nil
}

func (r *Client) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func (r *Client) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, NilType) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return result, true, nil
}

func (r *Client) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// SetNX stores value only when key is absent and reports whether it did.
func (r *Client) SetNX(ctx context.Context, key string, value []byte, expiration time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return ok, nil
}

func (r *Client) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (r *Client) Close() error {
	return r.client.Close()
}
