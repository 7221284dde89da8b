// Package redis provides the report cache: analysis reports are expensive
// to recompute, so they are cached under a key derived from the claim and
// its last-updated time.  A claim mutation changes the key, so stale
// reports are never served; they simply age out by TTL.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/pkg/errors"
)

// NewClient connects and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "connect to redis")
	}
	return client, nil
}
