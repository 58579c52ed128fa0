// Package gemini はGoogle Gemini APIを使用した株価予測クライアントを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"watchlist_backend/internal/feature/prediction/domain/entity"
	"watchlist_backend/internal/feature/prediction/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiPredictor はGoogle Gemini APIを使用して高値・安値の予測を生成します。
type GeminiPredictor struct {
	client *genai.Client
	model  string
}

// GeminiPredictorがPredictorを実装していることをコンパイル時に検証します。
var _ usecase.Predictor = (*GeminiPredictor)(nil)

// NewGeminiPredictor はADCを使用してGeminiPredictorの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewGeminiPredictor(ctx context.Context) (*GeminiPredictor, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiPredictor{client: client, model: DefaultModel}, nil
}

// Predict は直近5取引日のOHLCV履歴から翌取引日の高値・安値を予測します。
// モデルには厳密なJSONのみを返すよう指示し、コードフェンス付きの応答も許容します。
func (g *GeminiPredictor) Predict(ctx context.Context, symbol string, history []entity.HistoryBar) (*entity.Prediction, error) {
	bars, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are a quantitative analyst. Given the last trading days of OHLCV data for %s:\n%s\n"+
			"Estimate the next trading day's high and low prices. "+
			"Respond with strict JSON only, no prose, in the form "+
			`{"highPrediction": <number>, "lowPrediction": <number>}.`,
		symbol, string(bars))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	var out entity.Prediction
	if err := json.Unmarshal([]byte(stripFences(resp.Text())), &out); err != nil {
		return nil, fmt.Errorf("failed to parse prediction response: %w", err)
	}
	return &out, nil
}

// stripFences はモデル応答からMarkdownのコードフェンスを取り除きます。
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
