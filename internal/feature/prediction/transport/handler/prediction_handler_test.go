package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchlist_backend/internal/feature/prediction/domain/entity"
	"watchlist_backend/internal/feature/prediction/usecase"
)

// mockPredictionUsecase はPredictionUsecaseインターフェースのモック実装です。
type mockPredictionUsecase struct {
	PredictFunc func(ctx context.Context, symbol string) (*entity.Prediction, error)
}

func (m *mockPredictionUsecase) Predict(ctx context.Context, symbol string) (*entity.Prediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, symbol)
	}
	return nil, errors.New("not configured")
}

func TestPredictionHandler_Predict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		requestBody     gin.H
		mockPredictFunc func(ctx context.Context, symbol string) (*entity.Prediction, error)
		expectedStatus  int
	}{
		{
			name:        "success: returns prediction",
			requestBody: gin.H{"ticker": "AAPL"},
			mockPredictFunc: func(ctx context.Context, symbol string) (*entity.Prediction, error) {
				assert.Equal(t, "AAPL", symbol)
				return &entity.Prediction{HighPrediction: 155.5, LowPrediction: 148.0}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:            "failure: missing ticker field",
			requestBody:     gin.H{},
			mockPredictFunc: nil, // Usecase is not called
			expectedStatus:  http.StatusBadRequest,
		},
		{
			name:        "failure: insufficient history",
			requestBody: gin.H{"ticker": "NEWIPO"},
			mockPredictFunc: func(ctx context.Context, symbol string) (*entity.Prediction, error) {
				return nil, usecase.ErrInsufficientHistory
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "failure: model unavailable",
			requestBody: gin.H{"ticker": "AAPL"},
			mockPredictFunc: func(ctx context.Context, symbol string) (*entity.Prediction, error) {
				return nil, errors.New("model down")
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockPredictionUsecase{PredictFunc: tt.mockPredictFunc}
			handler := NewPredictionHandler(mockUC)

			router := gin.New()
			router.POST("/stocks/prediction", handler.Predict)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/stocks/prediction", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var pred entity.Prediction
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pred))
				assert.Equal(t, 155.5, pred.HighPrediction)
				assert.Equal(t, 148.0, pred.LowPrediction)
			}
		})
	}
}
