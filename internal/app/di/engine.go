package di

import (
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"watchlist_backend/internal/feature/watchlist/adapters"
	"watchlist_backend/internal/feature/watchlist/adapters/registry"
	"watchlist_backend/internal/feature/watchlist/usecase"
	infrahttp "watchlist_backend/internal/platform/http"
	"watchlist_backend/internal/shared/ratelimiter"
)

// defaultProviderRPM is the free-plan call budget for the market-data provider.
const defaultProviderRPM = 5

// NewRegistry creates a configured remote registry client.
func NewRegistry() *registry.Client {
	cfg := registry.LoadConfig()
	return registry.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewEngine assembles the reconciliation engine with all of its collaborators:
// the gorm-backed card store, the remote registry client, the (optionally
// cached) market-data client, and a provider rate limiter.
func NewEngine(db *gorm.DB, rdb *redis.Client) *usecase.Engine {
	rpm := defaultProviderRPM
	if v, err := strconv.Atoi(os.Getenv("POLYGON_RPM")); err == nil && v > 0 {
		rpm = v
	}
	limiter := ratelimiter.NewRateLimiter(rpm, time.Minute)

	return usecase.NewEngine(
		adapters.NewCardRepository(db),
		NewRegistry(),
		NewMarket(rdb),
		limiter,
	)
}
