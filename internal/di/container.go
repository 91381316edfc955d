package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"menu-portal/internal/menu"
	"menu-portal/internal/menu/config"
	"menu-portal/internal/shared/eventbus"
	"menu-portal/internal/shared/logger"
	"menu-portal/internal/shared/metrics"
)

// Container represents a dependency injection container with proper lifecycle management
type Container struct {
	mu       sync.RWMutex
	services map[reflect.Type]interface{}
	// Module instances
	MenuModule *menu.MenuModule
	// Shared infrastructure
	StoreAccessor *config.StoreAccessor
	EventBus      *eventbus.EventBus
	Metrics       *metrics.Collector
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer() *Container {
	return &Container{
		services: make(map[reflect.Type]interface{}),
	}
}

// InitializeMenu builds the shared infrastructure and the menu module
func (c *Container) InitializeMenu() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		c.Logger.Warnf("Failed to load menu config from environment, using defaults: %v", err)
		cfg = config.DefaultMenuConfig()
	}

	c.Metrics = metrics.NewCollector(cfg.MetricsNamespace)
	c.EventBus = eventbus.NewEventBus(c.Logger)
	c.StoreAccessor = config.NewStoreAccessor(c.Logger)

	menuModule, err := menu.NewMenuModuleWithConfig(c.StoreAccessor, c.EventBus, c.Logger, c.Metrics, cfg)
	if err != nil {
		return fmt.Errorf("failed to create menu module: %w", err)
	}
	c.MenuModule = menuModule

	c.register(c.Metrics)
	c.register(c.EventBus)
	c.register(c.StoreAccessor)
	return nil
}

func (c *Container) register(service interface{}) {
	c.services[reflect.TypeOf(service)] = service
}

// Resolve resolves a service by type
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if service, exists := c.services[serviceType]; exists {
		return service, nil
	}
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services
func GetService[T any](c *Container) (T, error) {
	var zero T
	serviceType := reflect.TypeOf((*T)(nil)).Elem()

	service, err := c.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// GetMenuModule returns the menu module instance
func (c *Container) GetMenuModule() *menu.MenuModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MenuModule
}

// HealthCheck pings the backing store when it is configured. An unconfigured store is not
// a failure: the menu endpoint keeps serving default items.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.StoreAccessor == nil || !c.StoreAccessor.IsConfigured() {
		return nil
	}
	if err := c.StoreAccessor.Ping(ctx); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Cleanup performs cleanup of registered services with proper shutdown order
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.EventBus != nil {
		if err := c.EventBus.Drain(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if c.MenuModule != nil {
		if err := c.MenuModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop menu module: %w", err))
		}
		c.MenuModule = nil
	}

	for _, service := range c.services {
		if cleaner, ok := service.(interface{ Cleanup(context.Context) error }); ok {
			if err := cleaner.Cleanup(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup service: %w", err))
			}
		}
	}

	c.services = make(map[reflect.Type]interface{})

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		if c.Logger != nil {
			c.Logger.Warnf("Cleanup errors occurred: %v", err)
		}
		return err
	}
	return nil
}
