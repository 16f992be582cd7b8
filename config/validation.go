package config

import (
	"fmt"
	"strconv"
)

// ValidateConfig checks that the loaded configuration is usable before the
// server starts.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return fmt.Errorf("server port must be numeric: %q", cfg.ServerPort)
	}
	if cfg.DBHost == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.DBPort == "" {
		return fmt.Errorf("database port is required")
	}
	if cfg.DBUser == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return fmt.Errorf("JWT secret must be at least 16 characters")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	return nil
}
