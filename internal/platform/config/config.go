// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, upload store) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/envision/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the Envision API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL). TLS is selected through the DSN's sslmode.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the image list cache.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Cross-Origin Resource Sharing, comma separated.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// Asset Store
	UploadDir        string `env:"UPLOAD_DIR"         envDefault:"./uploads"`
	UploadPublicPath string `env:"UPLOAD_PUBLIC_PATH" envDefault:"/uploads"`
	UploadMaxBytes   int64  `env:"UPLOAD_MAX_BYTES"`

	// PublicBaseURL overrides the request-derived scheme and host when resolving
	// uploaded image URLs (e.g. "https://cdn.example.com").
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// Admin identity
	JWTSecret         string        `env:"JWT_SECRET,required,notEmpty"`
	AdminUsername     string        `env:"ADMIN_USERNAME"      envDefault:"admin"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH,required,notEmpty"`
	AdminTokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL"     envDefault:"12h"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = constants.DefaultUploadMaxBytes
	}

	if cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("config: DB_MAX_CONNS must be positive, got %d", cfg.DBMaxConns)
	}

	if !strings.HasPrefix(cfg.UploadPublicPath, "/") {
		cfg.UploadPublicPath = "/" + cfg.UploadPublicPath
	}
	cfg.UploadPublicPath = strings.TrimSuffix(cfg.UploadPublicPath, "/")
	cfg.PublicBaseURL = strings.TrimSuffix(cfg.PublicBaseURL, "/")

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the configured CORS origins as a trimmed slice.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
