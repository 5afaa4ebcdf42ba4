package config

import (
	"fmt"
	"os"
	"time"
)

// Config carries everything main needs to wire the service. Values come
// from the environment; godotenv is loaded by the caller before Load.
type Config struct {
	Addr      string
	DSN       string
	JWTSecret string
	TokenTTL  time.Duration
}

const defaultTokenTTL = 24 * time.Hour

func Load() (*Config, error) {
	cfg := &Config{
		Addr:      getEnv("ADDR", ":3002"),
		DSN:       os.Getenv("DSN"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  defaultTokenTTL,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
