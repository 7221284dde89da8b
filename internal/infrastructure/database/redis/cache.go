package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/pkg/errors"
)

// ErrCacheMiss reports an absent key.
var ErrCacheMiss = errors.New(errors.ErrCodeCacheError, "cache miss")

// Cache is a JSON-value cache with namespaced keys and singleflight loading.
type Cache struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
	logger     logging.Logger
	group      singleflight.Group
}

// NewCache wraps an established client.
func NewCache(client redis.UniversalClient, cfg config.RedisConfig, logger logging.Logger) *Cache {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{
		client:     client,
		prefix:     cfg.KeyPrefix,
		defaultTTL: ttl,
		logger:     logger.Named("cache"),
	}
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get unmarshals the cached value into dest, or returns ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "decode cached value")
	}
	return nil
}

// Set stores value as JSON under key with the given TTL (0 = default).
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode cache value")
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set")
	}
	return nil
}

// GetOrSet returns the cached value, or loads, stores and returns it.
// Concurrent misses on the same key share a single load.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if err != ErrCacheMiss {
		// Backend failures fall through to the loader; the cache never
		// blocks the read path.
		c.logger.Warn("cache read failed, loading directly", logging.String("key", key), logging.Err(err))
	}

	raw, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			c.logger.Warn("cache write failed", logging.String("key", key), logging.Err(err))
		}
		return json.Marshal(value)
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dest)
}

// Ping verifies connectivity, used by readiness checks.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis ping")
	}
	return nil
}
