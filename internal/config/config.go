// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel string
	Port     int
	DevMode  bool
}

// Load reads configuration from environment variables, with .env file support.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: getEnv("FINCAST_LOG_LEVEL", "info"),
		Port:     8090,
		DevMode:  false,
	}

	if portStr := os.Getenv("FINCAST_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid FINCAST_PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if devStr := os.Getenv("FINCAST_DEV_MODE"); devStr != "" {
		dev, err := strconv.ParseBool(devStr)
		if err != nil {
			return nil, fmt.Errorf("invalid FINCAST_DEV_MODE %q: %w", devStr, err)
		}
		cfg.DevMode = dev
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
