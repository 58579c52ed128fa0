// Package handler はpredictionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchlist_backend/internal/feature/prediction/domain/entity"
	"watchlist_backend/internal/feature/prediction/usecase"
)

// PredictionUsecase は予測操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type PredictionUsecase interface {
	Predict(ctx context.Context, symbol string) (*entity.Prediction, error)
}

// PredictionHandler は予測リクエストを処理します。
type PredictionHandler struct {
	uc PredictionUsecase
}

// NewPredictionHandler はPredictionHandlerの新しいインスタンスを生成します。
func NewPredictionHandler(uc PredictionUsecase) *PredictionHandler {
	return &PredictionHandler{uc: uc}
}

// PredictReq は POST /stocks/prediction のリクエストボディです。
type PredictReq struct {
	Ticker string `json:"ticker" binding:"required"`
}

// Predict は POST /stocks/prediction を処理します。
// 履歴不足は422、その他の失敗は502として返します。
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	symbol := req.Ticker

	pred, err := h.uc.Predict(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, usecase.ErrInsufficientHistory) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		slog.Error("prediction failed", "symbol", symbol, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "prediction unavailable"})
		return
	}
	c.JSON(http.StatusOK, pred)
}
