// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional '.env' file in
the working directory is loaded first with 'joho/godotenv'; variables already present
in the environment win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (catalog store, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/pkg/query"
)

// DefaultEnvFile is the optional dotenv file read by [Load].
const DefaultEnvFile = ".env"

// # Configuration Schema

// Config holds all runtime configuration for the Biblioteca API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Catalog store (embedded sqlite file or PostgreSQL URL)
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"    envDefault:"./data/biblioteca.db"`

	// MigrateOnStart applies the embedded migrations before serving traffic.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// Key-Value Cache (Redis). Empty disables the catalog cache.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load reads [DefaultEnvFile] when present and parses environment variables into a
// [Config] struct.
func Load() (*Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile is [Load] with an explicit dotenv path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("config: DATABASE_DRIVER must be %q or %q, got %q",
			database.DriverSQLite, database.DriverPostgres, c.DatabaseDriver)
	}

	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL must not be empty")
	}

	if c.CacheTTL < 0 {
		return errors.New("config: CACHE_TTL must not be negative")
	}

	return nil
}

// Database returns the catalog store options.
func (c *Config) Database() database.Options {
	return database.Options{Driver: c.DatabaseDriver, URL: c.DatabaseURL}
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// Origins returns the extra CORS origins as a list.
func (c *Config) Origins() []string {
	return query.StringSlice(c.ExtraOrigins)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

