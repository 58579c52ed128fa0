// Package dto defines data transfer objects for the registry backend API.
package dto

// StockItem represents one registered stock in the registry's responses.
// The registry intentionally stores price and variation as zero; it is
// authoritative only for the set of registered symbols.
type StockItem struct {
	StockSymbol string  `json:"stockSymbol"`
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	Variation   float64 `json:"variation"`
}

// StockPage represents the paginated envelope returned by GET /stocks.
type StockPage struct {
	Content    []StockItem `json:"content"`
	Number     int         `json:"number"`
	TotalPages int         `json:"totalPages"`
}
