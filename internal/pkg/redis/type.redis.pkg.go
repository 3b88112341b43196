package redis

import (
	"context"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

type Config struct {
	Host        string
	Port        int
	Password    string
	PoolSize    int
	DialTimeout time.Duration
}

type Client struct {
	client *_redis.Client
}

// IRedis is the subset of redis commands the application uses.
// Get reports a missing key as ("", false, nil).
type IRedis interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, expiration time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	Close() error
}

const NilType = _redis.Nil
