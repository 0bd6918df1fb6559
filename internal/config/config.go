// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables; an empty
// variable counts as unset and takes the default.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string.
	// Required when StoreBackend is "postgres".
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server. Set CORS_ORIGINS to a comma-separated
	// list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// StoreBackend selects where garages persist: "postgres" or "redis".
	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`

	// RedisAddr is the host:port of the Redis server for the redis backend.
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// CatalogPath is the SQLite file holding the vehicle catalog and
	// label dictionaries. Missing tables are created empty on startup.
	CatalogPath string `env:"CATALOG_PATH" envDefault:"catalog.db"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	switch cfg.StoreBackend {
	case BackendPostgres, BackendRedis:
	default:
		return Config{}, fmt.Errorf("config: STORE_BACKEND must be %q or %q, got %q",
			BackendPostgres, BackendRedis, cfg.StoreBackend)
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("config: MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}

	var missing []string
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// trimAll trims each entry, ignoring empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
