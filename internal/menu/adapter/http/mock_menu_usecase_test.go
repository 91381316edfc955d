package http

import (
	"context"

	"menu-portal/internal/menu/config"
	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/menu/usecase"
)

// MockMenuUC implements usecase.MenuUsecaseInterface for the HTTP tests
type MockMenuUC struct {
	ListMenuItemsFn     func(ctx context.Context) usecase.ListMenuItemsResult
	SaveMenuItemsFn     func(ctx context.Context, items []model.MenuItem) ([]model.MenuItem, error)
	IsStoreConfiguredFn func() bool

	saveCalls int
}

func (m *MockMenuUC) ListMenuItems(ctx context.Context) usecase.ListMenuItemsResult {
	if m.ListMenuItemsFn != nil {
		return m.ListMenuItemsFn(ctx)
	}
	return usecase.ListMenuItemsResult{}
}

func (m *MockMenuUC) SaveMenuItems(ctx context.Context, items []model.MenuItem) ([]model.MenuItem, error) {
	m.saveCalls++
	if m.SaveMenuItemsFn != nil {
		return m.SaveMenuItemsFn(ctx, items)
	}
	return items, nil
}

func (m *MockMenuUC) IsStoreConfigured() bool {
	if m.IsStoreConfiguredFn != nil {
		return m.IsStoreConfiguredFn()
	}
	return false
}

// staticDiagnostics reports fixed credentials
type staticDiagnostics struct {
	creds config.RedisCredentials
}

func (d staticDiagnostics) IsConfigured() bool {
	return d.creds.IsComplete()
}

func (d staticDiagnostics) Credentials() config.RedisCredentials {
	return d.creds
}
