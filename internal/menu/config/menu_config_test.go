package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes key for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadConfig_Defaults(t *testing.T) {
	unsetEnv(t, "MENU_STORAGE_KEY")
	unsetEnv(t, "MENU_ROUTE_PREFIX")
	unsetEnv(t, "METRICS_NAMESPACE")
	unsetEnv(t, "ENVIRONMENT")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultStorageKey, cfg.StorageKey)
	assert.Equal(t, "menu_portal", cfg.MetricsNamespace)
	assert.Equal(t, "/api", cfg.RoutePrefix)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MENU_STORAGE_KEY", "tenant-a:menu")
	t.Setenv("MENU_ROUTE_PREFIX", "portal/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "tenant-a:menu", cfg.StorageKey)
	assert.Equal(t, "/portal", cfg.RoutePrefix)
}

func TestLoadConfig_BlankStorageKey(t *testing.T) {
	t.Setenv("MENU_STORAGE_KEY", "   ")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDefaultMenuConfig(t *testing.T) {
	cfg := DefaultMenuConfig()
	assert.Equal(t, "portal:menu_items", cfg.StorageKey)
	assert.Equal(t, "/api", cfg.RoutePrefix)
}
