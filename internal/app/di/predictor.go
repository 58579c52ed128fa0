package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"watchlist_backend/internal/feature/prediction/adapters/gemini"
	predictionhandler "watchlist_backend/internal/feature/prediction/transport/handler"
	"watchlist_backend/internal/feature/prediction/usecase"
)

// NewPredictionHandler creates the prediction handler, or nil when the
// Gemini backend is not configured. The router skips the prediction route
// in that case; the watchlist itself does not depend on predictions.
func NewPredictionHandler(ctx context.Context, rdb *redis.Client) *predictionhandler.PredictionHandler {
	predictor, err := gemini.NewGeminiPredictor(ctx)
	if err != nil {
		slog.Warn("Gemini unavailable. Running without predictions.", "error", err)
		return nil
	}
	uc := usecase.NewPredictionUsecase(NewMarket(rdb), predictor)
	return predictionhandler.NewPredictionHandler(uc)
}
