package menu

import (
	"context"
	"time"

	httpadapter "menu-portal/internal/menu/adapter/http"
	"menu-portal/internal/menu/adapter/persistence"
	"menu-portal/internal/menu/config"
	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/menu/usecase"
	"menu-portal/internal/shared/eventbus"
	"menu-portal/internal/shared/logger"
	"menu-portal/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
)

// MenuModule wires the menu collection endpoint: Redis store, usecase and HTTP handler.
type MenuModule struct {
	Config        *config.MenuConfig
	Accessor      *config.StoreAccessor
	StoreProvider *persistence.RedisStoreProvider
	Usecase       *usecase.MenuUsecase
	Handler       *httpadapter.HTTPHandler
	Logger        logger.Logger
}

// NewMenuModule creates the module, loading its configuration from the environment.
func NewMenuModule(
	accessor *config.StoreAccessor,
	bus *eventbus.EventBus,
	log logger.Logger,
	collector *metrics.Collector,
) (*MenuModule, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log.Info("Initializing Menu Module...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warnf("Failed to load menu config from environment, using defaults: %v", err)
		cfg = config.DefaultMenuConfig()
	}

	return NewMenuModuleWithConfig(accessor, bus, log, collector, cfg)
}

// NewMenuModuleWithConfig creates the module with the provided configuration.
func NewMenuModuleWithConfig(
	accessor *config.StoreAccessor,
	bus *eventbus.EventBus,
	log logger.Logger,
	collector *metrics.Collector,
	cfg *config.MenuConfig,
) (*MenuModule, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg == nil {
		cfg = config.DefaultMenuConfig()
	}

	provider := persistence.NewRedisStoreProvider(accessor, cfg.StorageKey, log, collector)

	var publisher eventbus.Publisher
	if bus != nil {
		publisher = bus
		bus.Subscribe(eventbus.EventTypeMenuItemsSaved, auditHandler(log))
		bus.Subscribe(eventbus.EventTypeMenuItemsSeeded, auditHandler(log))
	}

	menuUC := usecase.NewMenuUsecase(provider, publisher, log, collector, model.DefaultMenuItems(time.Now()))
	handler := httpadapter.NewMenuHTTPHandler(menuUC, accessor, cfg.Environment, log)

	if !accessor.IsConfigured() {
		log.Warn("Redis credentials not set; menu reads will serve default items and writes will fail with 503")
	}
	log.Infof("Menu module ready (storage key %s)", cfg.StorageKey)

	return &MenuModule{
		Config:        cfg,
		Accessor:      accessor,
		StoreProvider: provider,
		Usecase:       menuUC,
		Handler:       handler,
		Logger:        log,
	}, nil
}

// RegisterRoutes mounts the menu endpoints under the configured prefix
func (m *MenuModule) RegisterRoutes(router fiber.Router) {
	m.Handler.RegisterRoutes(router.Group(m.Config.RoutePrefix))
}

// Stop releases the store client
func (m *MenuModule) Stop() error {
	m.Logger.Info("Stopping Menu Module...")
	return m.Accessor.Close()
}

func auditHandler(log logger.Logger) eventbus.Handler {
	audit := log.WithComponent("menu_audit")
	return func(ctx context.Context, event eventbus.Event) error {
		payload, ok := event.Data().(usecase.MenuItemsEvent)
		if !ok {
			audit.Warnf("Unexpected payload for %s", event.Type())
			return nil
		}
		audit.WithFields(map[string]interface{}{
			"event":  event.Type(),
			"source": event.Source(),
			"count":  payload.Count,
			"ids":    payload.IDs,
		}).Info("Menu collection changed")
		return nil
	}
}
