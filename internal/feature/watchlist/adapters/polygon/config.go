// Package polygon provides a client for the Polygon.io market data API.
package polygon

import (
	"os"
	"time"
)

// Config holds configuration for the Polygon API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://api.polygon.io")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Polygon configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv("POLYGON_API_KEY"),
		BaseURL: os.Getenv("POLYGON_BASE_URL"),
		Timeout: 10 * time.Second,
	}
}
