package menuclient

import (
	"context"
	"errors"
	"sync"

	"menu-portal/internal/menu/domain/model"
)

// MockRemote holds a collection in memory. The Fn fields override the default behavior.
type MockRemote struct {
	FetchMenuItemsFn func(ctx context.Context) ([]model.MenuItem, error)
	SaveMenuItemsFn  func(ctx context.Context, items []model.MenuItem) error

	mu      sync.Mutex
	items   []model.MenuItem
	fetches int
	saves   int
}

func newMockRemote(items []model.MenuItem) *MockRemote {
	return &MockRemote{items: model.CloneMenuItems(items)}
}

func (m *MockRemote) FetchMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	m.mu.Lock()
	m.fetches++
	m.mu.Unlock()
	if m.FetchMenuItemsFn != nil {
		return m.FetchMenuItemsFn(ctx)
	}
	return m.Items(), nil
}

func (m *MockRemote) SaveMenuItems(ctx context.Context, items []model.MenuItem) error {
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()
	if m.SaveMenuItemsFn != nil {
		return m.SaveMenuItemsFn(ctx, items)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = model.CloneMenuItems(items)
	return nil
}

func (m *MockRemote) Items() []model.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		return []model.MenuItem{}
	}
	return model.CloneMenuItems(m.items)
}

func (m *MockRemote) Counts() (fetches, saves int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches, m.saves
}

var errCacheUnavailable = errors.New("quota exceeded")

// MockCache is a map-backed LocalCache with failure injection
type MockCache struct {
	mu     sync.Mutex
	values map[string]string
	GetErr error
	SetErr error
}

func newMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MockCache) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}
