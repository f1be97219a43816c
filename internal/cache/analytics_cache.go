// Package cache stores rendered analytics responses in Redis. Every entry is
// derived from the ledger, so any ledger write invalidates the whole keyspace.
//
// Keys carry a generation number that InvalidateAll bumps. A reader that
// loaded its snapshot before a write stores its result under the old
// generation, where no later reader looks.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	analyticsKeyPrefix = "analytics:"
	generationKey      = "analytics-generation"
	scanBatchSize      = 100
)

type AnalyticsCache interface {
	// Generation returns the current keyspace generation. Read it before
	// loading the data that will be passed to Set.
	Generation(ctx context.Context) (int64, error)
	// Get decodes the entry for scope and params into dest. The bool is false
	// on a miss.
	Get(ctx context.Context, gen int64, scope string, params any, dest any) (bool, error)
	Set(ctx context.Context, gen int64, scope string, params any, value any) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type redisAnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAnalyticsCache struct{}

func NewAnalyticsCache(ctx context.Context, cfg config.CacheConfig) (AnalyticsCache, error) {
	if !cfg.Enabled {
		return NewNoopAnalyticsCache(), nil
	}

	client, ttl, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &redisAnalyticsCache{client: client, ttl: ttl}, nil
}

func NewNoopAnalyticsCache() AnalyticsCache {
	return noopAnalyticsCache{}
}

func (c *redisAnalyticsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

func (c *redisAnalyticsCache) Get(ctx context.Context, gen int64, scope string, params any, dest any) (bool, error) {
	key, err := BuildKey(gen, scope, params)
	if err != nil {
		return false, err
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s cache: %w", scope, err)
	}
	return true, nil
}

func (c *redisAnalyticsCache) Set(ctx context.Context, gen int64, scope string, params any, value any) error {
	key, err := BuildKey(gen, scope, params)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", scope, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAnalyticsCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis incr generation failed: %w", err)
	}
	// Older generations are unreachable now; deleting them only frees memory.
	_, err := deleteKeysWithPrefix(ctx, c.client, analyticsKeyPrefix, scanBatchSize)
	return err
}

func (c *redisAnalyticsCache) Close() error {
	return c.client.Close()
}

func (noopAnalyticsCache) Generation(context.Context) (int64, error)              { return 0, nil }
func (noopAnalyticsCache) Get(context.Context, int64, string, any, any) (bool, error) { return false, nil }
func (noopAnalyticsCache) Set(context.Context, int64, string, any, any) error         { return nil }
func (noopAnalyticsCache) InvalidateAll(context.Context) error                        { return nil }
func (noopAnalyticsCache) Close() error                                               { return nil }

// BuildKey derives analytics:<gen>:<scope>:<sha1 of the JSON-encoded params>.
// Struct params encode in field order, so equal queries share a key.
func BuildKey(gen int64, scope string, params any) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode %s cache key: %w", scope, err)
	}
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%s%d:%s:%s", analyticsKeyPrefix, gen, scope, hex.EncodeToString(sum[:])), nil
}
