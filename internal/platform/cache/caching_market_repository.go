// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying provider client. Daily open/close and aggregate
// responses are keyed by symbol and date range, so a reconciliation run for
// many users hits the external provider at most once per symbol per day.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, it defaults to 15 minutes. If namespace is empty, it uses "market".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetDailyOpenClose retrieves a snapshot, checking cache first then falling
// back to the provider. Not-found responses are never cached: a symbol
// missing today may exist after the next market open.
func (c *CachingMarketRepository) GetDailyOpenClose(ctx context.Context, symbol, date string) (*entity.Snapshot, error) {
	if c.rdb == nil {
		return c.inner.GetDailyOpenClose(ctx, symbol, date)
	}

	key := c.snapshotKey(symbol, date)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Snapshot
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to provider
	out, err := c.inner.GetDailyOpenClose(ctx, symbol, date)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// GetAggregates retrieves an aggregate window, checking cache first then
// falling back to the provider.
func (c *CachingMarketRepository) GetAggregates(ctx context.Context, symbol, from, to string) ([]entity.Aggregate, error) {
	if c.rdb == nil {
		return c.inner.GetAggregates(ctx, symbol, from, to)
	}

	key := c.aggregatesKey(symbol, from, to)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Aggregate
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.GetAggregates(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// snapshotKey generates a cache key for a daily open/close query.
func (c *CachingMarketRepository) snapshotKey(symbol, date string) string {
	return fmt.Sprintf("%s:openclose:%s:%s", c.namespace, safe(symbol), safe(date))
}

// aggregatesKey generates a cache key for an aggregate-window query.
func (c *CachingMarketRepository) aggregatesKey(symbol, from, to string) string {
	return fmt.Sprintf("%s:aggs:%s:%s:%s", c.namespace, safe(symbol), safe(from), safe(to))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
