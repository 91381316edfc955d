package usecase_test

import (
	"context"
	"sync"

	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/menu/domain/repository"
	"menu-portal/internal/shared/eventbus"
)

// MockMenuStore is a mock implementation of repository.MenuStore
type MockMenuStore struct {
	GetMenuItemsFn  func(ctx context.Context) ([]model.MenuItem, error)
	SaveMenuItemsFn func(ctx context.Context, items []model.MenuItem) error

	mu    sync.Mutex
	saved [][]model.MenuItem
}

func (m *MockMenuStore) GetMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	if m.GetMenuItemsFn != nil {
		return m.GetMenuItemsFn(ctx)
	}
	return nil, repository.ErrCollectionNotFound
}

func (m *MockMenuStore) SaveMenuItems(ctx context.Context, items []model.MenuItem) error {
	m.mu.Lock()
	m.saved = append(m.saved, model.CloneMenuItems(items))
	m.mu.Unlock()
	if m.SaveMenuItemsFn != nil {
		return m.SaveMenuItemsFn(ctx, items)
	}
	return nil
}

func (m *MockMenuStore) Saved() [][]model.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.MenuItem(nil), m.saved...)
}

// MockStoreProvider is a mock implementation of repository.StoreProvider
type MockStoreProvider struct {
	Configured bool
	Store      repository.MenuStore
}

func (m *MockStoreProvider) IsConfigured() bool {
	return m.Configured
}

func (m *MockStoreProvider) MenuStore() (repository.MenuStore, bool) {
	if !m.Configured || m.Store == nil {
		return nil, false
	}
	return m.Store, true
}

// MockPublisher records events synchronously
type MockPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (m *MockPublisher) Publish(ctx context.Context, event eventbus.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) PublishAndForget(ctx context.Context, event eventbus.Event) {
	_ = m.Publish(ctx, event)
}

func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type()
	}
	return types
}
