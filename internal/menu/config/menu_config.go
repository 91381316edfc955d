package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v6"
)

// DefaultStorageKey is the Redis key holding the JSON-serialized collection
const DefaultStorageKey = "portal:menu_items"

// MenuConfig holds all configuration for the menu module.
type MenuConfig struct {
	// StorageKey is the single key the whole collection lives under.
	StorageKey string `env:"MENU_STORAGE_KEY" envDefault:"portal:menu_items"`

	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"menu_portal"`

	// RoutePrefix is where the REST surface is mounted.
	RoutePrefix string `env:"MENU_ROUTE_PREFIX" envDefault:"/api"`

	// Environment names the deployment in the diagnostics route.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*MenuConfig, error) {
	cfg := &MenuConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load menu configuration from environment: " + err.Error())
	}

	cfg.StorageKey = strings.TrimSpace(cfg.StorageKey)
	if cfg.StorageKey == "" {
		return nil, errors.New("MENU_STORAGE_KEY must not be blank")
	}
	if cfg.RoutePrefix != "" && !strings.HasPrefix(cfg.RoutePrefix, "/") {
		cfg.RoutePrefix = "/" + cfg.RoutePrefix
	}
	cfg.RoutePrefix = strings.TrimSuffix(cfg.RoutePrefix, "/")

	return cfg, nil
}

// DefaultMenuConfig returns a MenuConfig with default values.
func DefaultMenuConfig() *MenuConfig {
	return &MenuConfig{
		StorageKey:       DefaultStorageKey,
		MetricsNamespace: "menu_portal",
		RoutePrefix:      "/api",
		Environment:      "development",
	}
}
