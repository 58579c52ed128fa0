package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchlist_backend/internal/feature/prediction/domain/entity"
	watchlistentity "watchlist_backend/internal/feature/watchlist/domain/entity"
)

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	GetAggregatesFunc func(ctx context.Context, symbol, from, to string) ([]watchlistentity.Aggregate, error)
}

func (m *mockMarketRepository) GetAggregates(ctx context.Context, symbol, from, to string) ([]watchlistentity.Aggregate, error) {
	if m.GetAggregatesFunc != nil {
		return m.GetAggregatesFunc(ctx, symbol, from, to)
	}
	return nil, nil
}

// mockPredictor はPredictorインターフェースのモック実装です。
type mockPredictor struct {
	PredictFunc func(ctx context.Context, symbol string, history []entity.HistoryBar) (*entity.Prediction, error)
}

func (m *mockPredictor) Predict(ctx context.Context, symbol string, history []entity.HistoryBar) (*entity.Prediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, symbol, history)
	}
	return &entity.Prediction{}, nil
}

// bars はday刻みの終値バーをn本生成します。
func bars(n int, start time.Time) []watchlistentity.Aggregate {
	out := make([]watchlistentity.Aggregate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, watchlistentity.Aggregate{
			Time:   start.AddDate(0, 0, i),
			Open:   100 + float64(i),
			High:   105 + float64(i),
			Low:    95 + float64(i),
			Close:  102 + float64(i),
			Volume: 1000,
		})
	}
	return out
}

func TestPredictionUsecase_Predict(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	t.Run("success: uses the most recent five trading days", func(t *testing.T) {
		t.Parallel()

		market := &mockMarketRepository{
			GetAggregatesFunc: func(ctx context.Context, symbol, from, to string) ([]watchlistentity.Aggregate, error) {
				assert.Equal(t, "AAPL", symbol)
				return bars(8, start), nil
			},
		}
		predictor := &mockPredictor{
			PredictFunc: func(ctx context.Context, symbol string, history []entity.HistoryBar) (*entity.Prediction, error) {
				require.Len(t, history, 5, "prediction must receive exactly five bars")
				// 8本中の直近5本（index 3..7）のみが渡される
				assert.Equal(t, "2025-11-06", history[0].Date)
				assert.Equal(t, "2025-11-10", history[4].Date)
				assert.Equal(t, 105.0, history[0].Close)
				return &entity.Prediction{HighPrediction: 112.5, LowPrediction: 103.0}, nil
			},
		}

		uc := NewPredictionUsecase(market, predictor)
		pred, err := uc.Predict(context.Background(), "aapl")

		require.NoError(t, err)
		assert.Equal(t, 112.5, pred.HighPrediction)
		assert.Equal(t, 103.0, pred.LowPrediction)
	})

	t.Run("failure: insufficient history", func(t *testing.T) {
		t.Parallel()

		market := &mockMarketRepository{
			GetAggregatesFunc: func(ctx context.Context, symbol, from, to string) ([]watchlistentity.Aggregate, error) {
				return bars(3, start), nil
			},
		}
		predictorCalled := false
		predictor := &mockPredictor{
			PredictFunc: func(ctx context.Context, symbol string, history []entity.HistoryBar) (*entity.Prediction, error) {
				predictorCalled = true
				return nil, nil
			},
		}

		uc := NewPredictionUsecase(market, predictor)
		_, err := uc.Predict(context.Background(), "AAPL")

		assert.ErrorIs(t, err, ErrInsufficientHistory)
		assert.False(t, predictorCalled, "predictor must not run without enough history")
	})

	t.Run("failure: market error propagated", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("provider down")
		market := &mockMarketRepository{
			GetAggregatesFunc: func(ctx context.Context, symbol, from, to string) ([]watchlistentity.Aggregate, error) {
				return nil, expectedErr
			},
		}

		uc := NewPredictionUsecase(market, &mockPredictor{})
		_, err := uc.Predict(context.Background(), "AAPL")

		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("failure: predictor error propagated", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("model unavailable")
		market := &mockMarketRepository{
			GetAggregatesFunc: func(ctx context.Context, symbol, from, to string) ([]watchlistentity.Aggregate, error) {
				return bars(5, start), nil
			},
		}
		predictor := &mockPredictor{
			PredictFunc: func(ctx context.Context, symbol string, history []entity.HistoryBar) (*entity.Prediction, error) {
				return nil, expectedErr
			},
		}

		uc := NewPredictionUsecase(market, predictor)
		_, err := uc.Predict(context.Background(), "AAPL")

		assert.ErrorIs(t, err, expectedErr)
	})
}
