package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// DefaultFilterTTL is how long aggregated filter options stay cached
const DefaultFilterTTL = 5 * time.Minute

const filterOptionsKey = "jobboard:filters:v1"

// FilterSource computes filter options from the job store.
type FilterSource interface {
	FilterOptions(ctx context.Context) (*types.FilterOptions, error)
}

// FilterCache serves filter options from Redis, recomputing from the source
// on a miss. Redis failures are logged and fall through to the source, so a
// cache outage never fails a request. A nil client disables caching.
type FilterCache struct {
	source FilterSource
	rdb    *redis.Client
	ttl    time.Duration
}

// NewFilterCache wraps source with a Redis cache. ttl <= 0 uses DefaultFilterTTL.
func NewFilterCache(source FilterSource, rdb *redis.Client, ttl time.Duration) *FilterCache {
	if ttl <= 0 {
		ttl = DefaultFilterTTL
	}
	return &FilterCache{source: source, rdb: rdb, ttl: ttl}
}

// FilterOptions returns cached options or computes and caches them.
func (c *FilterCache) FilterOptions(ctx context.Context) (*types.FilterOptions, error) {
	if c.rdb == nil {
		return c.source.FilterOptions(ctx)
	}

	raw, err := c.rdb.Get(ctx, filterOptionsKey).Bytes()
	switch {
	case err == nil:
		var opts types.FilterOptions
		if jsonErr := json.Unmarshal(raw, &opts); jsonErr == nil {
			return &opts, nil
		}
		log.Printf("[cache] discarding undecodable filter options entry")
	case !errors.Is(err, redis.Nil):
		log.Printf("[cache] filter options lookup failed: %v", err)
	}

	opts, err := c.source.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(opts); err == nil {
		if err := c.rdb.Set(ctx, filterOptionsKey, data, c.ttl).Err(); err != nil {
			log.Printf("[cache] filter options store failed: %v", err)
		}
	}
	return opts, nil
}

// Invalidate drops the cached filter options so the next read recomputes them.
func (c *FilterCache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, filterOptionsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate filter options: %w", err)
	}
	return nil
}
