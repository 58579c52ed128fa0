// Package dto defines data transfer objects for the Polygon API responses.
package dto

// OpenCloseResponse represents the JSON response from the daily open/close
// endpoint (/v1/open-close/{symbol}/{date}). Status is "OK" when data exists
// and "NOT_FOUND" when the provider has no data for the symbol/date.
type OpenCloseResponse struct {
	Status string  `json:"status"`
	From   string  `json:"from"`
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`
}

// AggregateBar is one OHLCV bar in an aggregates response.
// Timestamps are epoch milliseconds.
type AggregateBar struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

// AggregatesResponse represents the JSON response from the range aggregates
// endpoint (/v2/aggs/ticker/{symbol}/range/...). ResultsCount is zero and
// Results absent when the window contains no trading days.
type AggregatesResponse struct {
	Status       string         `json:"status"`
	Ticker       string         `json:"ticker"`
	ResultsCount int            `json:"resultsCount"`
	Results      []AggregateBar `json:"results"`
}
