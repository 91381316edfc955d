package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"menu-portal/internal/menu/config"
	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/menu/domain/repository"
	"menu-portal/internal/shared/logger"
	"menu-portal/internal/shared/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	operationGet = "get"
	operationSet = "set"
)

// RedisMenuStore implements repository.MenuStore on a single Redis string key
// holding the JSON array of menu items.
type RedisMenuStore struct {
	client  redis.Cmdable
	key     string
	logger  logger.Logger
	metrics *metrics.Collector
}

// NewRedisMenuStore creates a store bound to key
func NewRedisMenuStore(client redis.Cmdable, key string, log logger.Logger, collector *metrics.Collector) *RedisMenuStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisMenuStore{
		client:  client,
		key:     key,
		logger:  log,
		metrics: collector,
	}
}

// GetMenuItems loads the collection. It returns repository.ErrCollectionNotFound when the key
// is absent and repository.ErrInvalidCollection when the stored value is not a JSON array.
func (s *RedisMenuStore) GetMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	start := time.Now()

	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.metrics.ObserveStoreOperation(operationGet, metrics.ResultNotFound, start)
		return nil, repository.ErrCollectionNotFound
	}
	if err != nil {
		s.metrics.ObserveStoreOperation(operationGet, metrics.ResultError, start)
		s.logger.WithContext(ctx).Errorf("Failed to read menu collection from Redis key %s: %v", s.key, err)
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.metrics.ObserveStoreOperation(operationGet, metrics.ResultNotFound, start)
		s.logger.WithContext(ctx).Warnf("Redis key %s does not hold a JSON array", s.key)
		return nil, repository.ErrInvalidCollection
	}

	items := make([]model.MenuItem, 0)
	if err := json.Unmarshal(trimmed, &items); err != nil {
		s.metrics.ObserveStoreOperation(operationGet, metrics.ResultError, start)
		return nil, fmt.Errorf("decode menu collection: %w", err)
	}

	s.metrics.ObserveStoreOperation(operationGet, metrics.ResultOK, start)
	s.logger.WithContext(ctx).Debugf("Loaded %d menu items from Redis", len(items))
	return items, nil
}

// SaveMenuItems overwrites the whole collection
func (s *RedisMenuStore) SaveMenuItems(ctx context.Context, items []model.MenuItem) error {
	start := time.Now()

	if items == nil {
		items = []model.MenuItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode menu collection: %w", err)
	}

	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		s.metrics.ObserveStoreOperation(operationSet, metrics.ResultError, start)
		s.logger.WithContext(ctx).Errorf("Failed to write menu collection to Redis key %s: %v", s.key, err)
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}

	s.metrics.ObserveStoreOperation(operationSet, metrics.ResultOK, start)
	s.logger.WithContext(ctx).Debugf("Stored %d menu items in Redis", len(items))
	return nil
}

// RedisStoreProvider adapts the StoreAccessor to repository.StoreProvider
type RedisStoreProvider struct {
	accessor *config.StoreAccessor
	key      string
	logger   logger.Logger
	metrics  *metrics.Collector
}

// NewRedisStoreProvider creates a provider that builds stores on the accessor's client
func NewRedisStoreProvider(accessor *config.StoreAccessor, key string, log logger.Logger, collector *metrics.Collector) *RedisStoreProvider {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisStoreProvider{
		accessor: accessor,
		key:      key,
		logger:   log,
		metrics:  collector,
	}
}

// IsConfigured reports whether the Redis credentials are present
func (p *RedisStoreProvider) IsConfigured() bool {
	return p.accessor.IsConfigured()
}

// MenuStore returns a store on the cached client, or false if no client is available
func (p *RedisStoreProvider) MenuStore() (repository.MenuStore, bool) {
	client := p.accessor.GetClient()
	if client == nil {
		return nil, false
	}
	return NewRedisMenuStore(client, p.key, p.logger, p.metrics), true
}
