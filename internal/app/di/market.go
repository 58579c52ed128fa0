// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"watchlist_backend/internal/feature/watchlist/adapters/polygon"
	"watchlist_backend/internal/feature/watchlist/usecase"
	"watchlist_backend/internal/platform/cache"
	infrahttp "watchlist_backend/internal/platform/http"
)

// NewMarket creates a fully configured market-data client.
// When a Redis client is available the provider is wrapped in the caching
// decorator; otherwise calls go straight to the provider.
func NewMarket(rdb *redis.Client) usecase.MarketRepository {
	cfg := polygon.LoadConfig()
	client := polygon.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	if rdb == nil {
		return client
	}
	return cache.NewCachingMarketRepository(rdb, cache.TimeUntilNextMarketOpen(), client, "market")
}
