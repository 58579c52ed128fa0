// Package registry provides a client for the remote stock registry backend.
package registry

import (
	"os"
	"time"
)

// Config holds configuration for the stock registry client.
type Config struct {
	BaseURL string        // Base URL for the registry backend (e.g., "http://stockapp-backend:8080")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads registry configuration from environment variables.
func LoadConfig() Config {
	return Config{
		BaseURL: os.Getenv("REGISTRY_BASE_URL"),
		Timeout: 10 * time.Second,
	}
}
