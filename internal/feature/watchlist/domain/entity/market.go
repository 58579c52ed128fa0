package entity

import "time"

// Snapshot は外部プロバイダーから取得した銘柄の日次始値終値です。
type Snapshot struct {
	Symbol      string
	CompanyName string
	Open        float64
	Close       float64
}

// Aggregate は1取引日分のOHLCVバーです。
type Aggregate struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// RegisteredStock はリモートレジストリに登録済みの銘柄です。
// レジストリは価格を追跡しないため、価格系フィールドは持ちません。
type RegisteredStock struct {
	Symbol      string
	CompanyName string
}

// Closes はアグリゲート列から終値のみを時系列順に取り出します。
func Closes(aggs []Aggregate) []float64 {
	closes := make([]float64, 0, len(aggs))
	for _, a := range aggs {
		closes = append(closes, a.Close)
	}
	return closes
}
