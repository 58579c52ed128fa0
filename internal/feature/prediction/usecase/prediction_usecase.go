// Package usecase は株価予測のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"watchlist_backend/internal/feature/prediction/domain/entity"
	watchlistentity "watchlist_backend/internal/feature/watchlist/domain/entity"
	watchlistusecase "watchlist_backend/internal/feature/watchlist/usecase"
)

const (
	// historyWindowDays は履歴取得のカレンダー日数です。週末を挟んでも
	// minHistoryBars 日分の取引日を確保できるよう広めに取ります。
	historyWindowDays = 10

	// minHistoryBars は予測に必要な最低取引日数です。
	minHistoryBars = 5
)

// ErrInsufficientHistory は予測に足る履歴がない場合に返されます。
var ErrInsufficientHistory = errors.New("not enough trading history (minimum 5 days)")

// MarketRepository は履歴取得用にマーケットデータプロバイダーを抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）側で定義します。
type MarketRepository interface {
	GetAggregates(ctx context.Context, symbol, from, to string) ([]watchlistentity.Aggregate, error)
}

// Predictor は履歴から翌取引日の高値・安値を予測するモデルを抽象化します。
type Predictor interface {
	Predict(ctx context.Context, symbol string, history []entity.HistoryBar) (*entity.Prediction, error)
}

// predictionUsecase は予測ユースケースを実装します。
type predictionUsecase struct {
	market    MarketRepository
	predictor Predictor
	now       func() time.Time
}

// NewPredictionUsecase はpredictionUsecaseの新しいインスタンスを生成します。
func NewPredictionUsecase(market MarketRepository, predictor Predictor) *predictionUsecase {
	return &predictionUsecase{market: market, predictor: predictor, now: time.Now}
}

// Predict は直近5取引日の履歴を組み立てて予測モデルに渡します。
// 取引日が5日に満たない場合は ErrInsufficientHistory を返します。
func (u *predictionUsecase) Predict(ctx context.Context, symbol string) (*entity.Prediction, error) {
	symbol = watchlistusecase.NormalizeSymbol(symbol)

	today := u.now()
	from := today.AddDate(0, 0, -historyWindowDays).Format(watchlistusecase.TradingDayFormat)
	to := today.Format(watchlistusecase.TradingDayFormat)

	aggs, err := u.market.GetAggregates(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(aggs) < minHistoryBars {
		return nil, ErrInsufficientHistory
	}

	// 直近の5取引日のみを使用
	recent := aggs[len(aggs)-minHistoryBars:]
	history := make([]entity.HistoryBar, 0, minHistoryBars)
	for _, a := range recent {
		history = append(history, entity.HistoryBar{
			Date:   a.Time.Format(watchlistusecase.TradingDayFormat),
			Open:   a.Open,
			High:   a.High,
			Low:    a.Low,
			Close:  a.Close,
			Volume: a.Volume,
		})
	}

	return u.predictor.Predict(ctx, symbol, history)
}
