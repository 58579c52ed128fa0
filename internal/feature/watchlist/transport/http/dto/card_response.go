// Package dto defines data transfer objects for the watchlist HTTP API.
package dto

import (
	"time"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// CardItem represents one watchlist entry in API responses.
type CardItem struct {
	Symbol           string    `json:"symbol"`
	DisplayName      string    `json:"displayName"`
	LastPrice        float64   `json:"lastPrice"`
	VariationPercent float64   `json:"variationPercent"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// AddCardReq is the request body for adding a symbol to the watchlist.
type AddCardReq struct {
	Symbol string `json:"symbol" binding:"required"`
}

// FromCards converts domain cards to response items.
func FromCards(cards []entity.Card) []CardItem {
	out := make([]CardItem, 0, len(cards))
	for _, c := range cards {
		out = append(out, FromCard(c))
	}
	return out
}

// FromCard converts one domain card to a response item.
func FromCard(c entity.Card) CardItem {
	return CardItem{
		Symbol:           c.Symbol,
		DisplayName:      c.DisplayName,
		LastPrice:        c.LastPrice,
		VariationPercent: c.VariationPercent,
		LastUpdated:      c.LastUpdated,
	}
}
