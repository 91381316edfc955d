package repository

import (
	"context"
	"errors"

	"menu-portal/internal/menu/domain/model"
)

var (
	// ErrCollectionNotFound is returned when nothing is stored under the collection key
	ErrCollectionNotFound = errors.New("menu collection not found")
	// ErrInvalidCollection is returned when the stored value is not a JSON array of items
	ErrInvalidCollection = errors.New("stored menu collection is not a sequence")
)

// MenuStore persists the whole menu collection under one key.
// There are no per-item operations: every write overwrites the collection.
type MenuStore interface {
	GetMenuItems(ctx context.Context) ([]model.MenuItem, error)
	SaveMenuItems(ctx context.Context, items []model.MenuItem) error
}

// StoreProvider hands out a MenuStore when the backing store is usable.
type StoreProvider interface {
	// IsConfigured reports whether the store credentials are present.
	IsConfigured() bool
	// MenuStore returns the store, or false when the client is unavailable.
	MenuStore() (MenuStore, bool)
}
