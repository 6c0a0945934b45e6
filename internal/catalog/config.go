package catalog

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config is read from environment variables at startup.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// StoreDriver selects the persistence backend: memory, file or postgres.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DataFile    string `env:"DATA_FILE" envDefault:"catalog.json"`
	DatabaseURL string `env:"DATABASE_URL"`

	PageSize int `env:"PAGE_SIZE" envDefault:"4"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsToken   string `env:"METRICS_TOKEN"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.PageSize < 1 {
		return Config{}, fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}

	switch cfg.StoreDriver {
	case "memory":
	case "file":
		if cfg.DataFile == "" {
			return Config{}, fmt.Errorf("DATA_FILE is required for the file store")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return cfg, nil
}
