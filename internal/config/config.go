package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Auth. Empty disables authentication (local editor integrations).
	APIKey string

	// Request limits
	MaxBodyBytes int64
}

func Load() Config {
	cfg := Config{
		Port:         envOr("PORT", "8091"),
		APIKey:       os.Getenv("MDTREE_API_KEY"),
		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 10485760), // 10MB
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10485760
	}

	return cfg
}

// Validate reports configuration values the server cannot start with.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
