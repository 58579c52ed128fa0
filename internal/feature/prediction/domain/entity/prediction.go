// Package entity はpredictionフィーチャーのドメインモデルを定義します。
package entity

// HistoryBar は予測モデルへの入力となる1取引日分のOHLCVです。
type HistoryBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// Prediction は翌取引日の高値・安値の予測です。
type Prediction struct {
	HighPrediction float64 `json:"highPrediction"`
	LowPrediction  float64 `json:"lowPrediction"`
}
