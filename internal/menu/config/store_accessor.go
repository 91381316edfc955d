package config

import (
	"context"
	"sync"

	"menu-portal/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// StoreAccessor lazily provides the Redis client backing the menu collection.
// It lives for the lifetime of the application (owned by the DI container) and reads the
// credentials from the process environment on every call, so a deployment that injects
// them late is picked up without a restart.
type StoreAccessor struct {
	loadCredentials func() RedisCredentials
	loadConfig      func() (*RedisConfig, error)
	newClient       func(*RedisConfig) (*redis.Client, error)
	log             logger.Logger

	mu     sync.RWMutex
	client *redis.Client
}

// NewStoreAccessor creates an accessor reading REDIS_* variables from the environment
func NewStoreAccessor(log logger.Logger) *StoreAccessor {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &StoreAccessor{
		loadCredentials: LoadRedisCredentials,
		loadConfig:      LoadRedisConfig,
		newClient:       NewRedisClient,
		log:             log.WithComponent("store_accessor"),
	}
}

// IsConfigured reports whether both REDIS_URL and REDIS_TOKEN are present. It has no side effects.
func (a *StoreAccessor) IsConfigured() bool {
	return a.loadCredentials().IsComplete()
}

// Credentials returns the credentials currently visible in the environment
func (a *StoreAccessor) Credentials() RedisCredentials {
	return a.loadCredentials()
}

// GetClient returns the cached client, constructing it on first use.
// It returns nil without attempting construction when the store is not configured, and nil
// when construction fails; failures are not cached so a later call can succeed.
func (a *StoreAccessor) GetClient() *redis.Client {
	if !a.IsConfigured() {
		return nil
	}

	a.mu.RLock()
	client := a.client
	a.mu.RUnlock()
	if client != nil {
		return client
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client
	}

	cfg, err := a.loadConfig()
	if err != nil {
		a.log.Warnf("Redis configuration could not be loaded: %v", err)
		return nil
	}

	client, err = a.newClient(cfg)
	if err != nil {
		a.log.Warnf("Redis client construction failed: %v", err)
		return nil
	}

	a.log.Info("Redis client initialized")
	a.client = client
	return client
}

// Ping checks connectivity of the configured store
func (a *StoreAccessor) Ping(ctx context.Context) error {
	if !a.IsConfigured() {
		return ErrRedisNotConfigured
	}
	client := a.GetClient()
	if client == nil {
		return ErrRedisClientUnavailable
	}
	return client.Ping(ctx).Err()
}

// Reset closes and forgets the cached client. The next GetClient constructs a fresh one.
func (a *StoreAccessor) Reset() error {
	a.mu.Lock()
	client := a.client
	a.client = nil
	a.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// Close releases the cached client
func (a *StoreAccessor) Close() error {
	return a.Reset()
}
