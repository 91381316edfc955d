package menu

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"menu-portal/internal/menu/config"
	"menu-portal/internal/menu/usecase"
	"menu-portal/internal/shared/eventbus"
	"menu-portal/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestNewMenuModule_UnconfiguredStore(t *testing.T) {
	unsetEnv(t, config.EnvRedisURL)
	unsetEnv(t, config.EnvRedisToken)
	unsetEnv(t, "MENU_ROUTE_PREFIX")

	bus := eventbus.NewEventBus(logger.NewNopLogger())
	module, err := NewMenuModule(config.NewStoreAccessor(nil), bus, logger.NewNopLogger(), nil)
	require.NoError(t, err)
	defer module.Stop()

	assert.Equal(t, 1, bus.SubscriberCount(eventbus.EventTypeMenuItemsSaved))
	assert.Equal(t, 1, bus.SubscriberCount(eventbus.EventTypeMenuItemsSeeded))

	app := fiber.New()
	module.RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/menu-items", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Items   []map[string]interface{} `json:"items"`
		Warning string                   `json:"warning"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Items, 2)
	assert.Equal(t, usecase.WarningNotConfigured, body.Warning)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNewMenuModuleWithConfig_CustomPrefix(t *testing.T) {
	unsetEnv(t, config.EnvRedisURL)
	unsetEnv(t, config.EnvRedisToken)

	cfg := config.DefaultMenuConfig()
	cfg.RoutePrefix = "/portal"
	module, err := NewMenuModuleWithConfig(config.NewStoreAccessor(nil), nil, nil, nil, cfg)
	require.NoError(t, err)

	app := fiber.New()
	module.RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/portal/menu-items", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/menu-items", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAuditHandler_IgnoresUnexpectedPayload(t *testing.T) {
	handler := auditHandler(logger.NewNopLogger())

	err := handler(context.Background(), eventbus.NewEvent(eventbus.EventTypeMenuItemsSaved, "test", "not a payload"))
	assert.NoError(t, err)

	err = handler(context.Background(), eventbus.NewEvent(eventbus.EventTypeMenuItemsSaved, "test",
		usecase.MenuItemsEvent{Count: 1, IDs: []string{"a"}}))
	assert.NoError(t, err)
}
