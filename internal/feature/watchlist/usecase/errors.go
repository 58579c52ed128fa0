// Package usecase implements the business logic for the watchlist feature.
package usecase

import "errors"

var (
	// ErrEmptySymbol is returned when AddSymbol is called with a blank symbol.
	ErrEmptySymbol = errors.New("symbol must not be empty")

	// ErrDuplicateSymbol is returned when the symbol is already on the watchlist.
	ErrDuplicateSymbol = errors.New("symbol is already on the watchlist")

	// ErrSymbolNotFound is returned when the market-data provider has no data
	// for the symbol, or the response lacks the canonical symbol name.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrProviderUnavailable is returned when the market-data provider fails
	// for reasons other than an unknown symbol.
	ErrProviderUnavailable = errors.New("market data provider unavailable")
)
