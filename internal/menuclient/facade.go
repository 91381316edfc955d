package menuclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/shared/logger"
)

// maxIDAttempts bounds id regeneration on collision before a counter suffix is appended
const maxIDAttempts = 8

// Remote is the collection endpoint as seen by the facade
type Remote interface {
	FetchMenuItems(ctx context.Context) ([]model.MenuItem, error)
	SaveMenuItems(ctx context.Context, items []model.MenuItem) error
}

// Facade mediates between menu mutations and the remote collection, mirroring every
// successful read and every attempted write into the local cache.
//
// Mutations are unguarded fetch-modify-save cycles. Two callers racing on the same
// collection can lose an update: the later save overwrites the earlier one.
type Facade struct {
	remote   Remote
	cache    LocalCache
	logger   logger.Logger
	now      func() time.Time
	newID    func(time.Time) string
	defaults []model.MenuItem
}

// FacadeOption configures a Facade
type FacadeOption func(*Facade)

// WithClock overrides the time source used for ids and createdAt
func WithClock(now func() time.Time) FacadeOption {
	return func(f *Facade) {
		f.now = now
	}
}

// WithIDGenerator overrides item id generation
func WithIDGenerator(newID func(time.Time) string) FacadeOption {
	return func(f *Facade) {
		f.newID = newID
	}
}

// WithDefaults overrides the fallback collection
func WithDefaults(items []model.MenuItem) FacadeOption {
	return func(f *Facade) {
		f.defaults = model.CloneMenuItems(items)
	}
}

// NewFacade creates a facade. A nil cache means no durable local storage is available:
// reads then return the defaults without touching the network and saves report failure.
func NewFacade(remote Remote, cache LocalCache, log logger.Logger, opts ...FacadeOption) *Facade {
	if log == nil {
		log = logger.NewNopLogger()
	}
	f := &Facade{
		remote: remote,
		cache:  cache,
		logger: log.WithComponent("menu_facade"),
		now:    time.Now,
		newID:  NewItemID,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.defaults == nil {
		f.defaults = model.DefaultMenuItems(f.now())
	}
	return f
}

// FetchMenuItems reads the remote collection and mirrors it locally. When the remote read
// fails it falls back to the cached collection, then to the defaults.
func (f *Facade) FetchMenuItems(ctx context.Context) []model.MenuItem {
	if f.cache == nil {
		return model.CloneMenuItems(f.defaults)
	}

	items, err := f.remote.FetchMenuItems(ctx)
	if err != nil {
		f.logger.WithContext(ctx).Errorf("Error fetching menu items from API: %v", err)
		return f.CachedMenuItems(ctx)
	}

	f.writeCache(ctx, items)
	return items
}

// CachedMenuItems returns the locally cached collection, or the defaults when nothing
// usable is cached
func (f *Facade) CachedMenuItems(ctx context.Context) []model.MenuItem {
	if f.cache == nil {
		return model.CloneMenuItems(f.defaults)
	}

	raw, ok, err := f.cache.Get(ctx, CacheKey)
	if err != nil {
		f.logger.WithContext(ctx).Warnf("Local cache read failed: %v", err)
		return model.CloneMenuItems(f.defaults)
	}
	if !ok || raw == "" {
		return model.CloneMenuItems(f.defaults)
	}

	var items []model.MenuItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		f.logger.WithContext(ctx).Warnf("Local cache holds an unreadable collection: %v", err)
		return model.CloneMenuItems(f.defaults)
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return items
}

// SaveMenuItems writes the collection remotely and mirrors it locally. If the remote write
// fails the local copy is still written, and the result reports whether any durable write
// succeeded.
func (f *Facade) SaveMenuItems(ctx context.Context, items []model.MenuItem) bool {
	if f.cache == nil {
		return false
	}

	if err := f.remote.SaveMenuItems(ctx, items); err != nil {
		f.logger.WithContext(ctx).Errorf("Error saving menu items to API: %v", err)
		return f.writeCache(ctx, items)
	}

	f.writeCache(ctx, items)
	return true
}

// AddMenuItem appends a new item with a generated id and createdAt, then saves the
// collection. The item is returned whether or not the save succeeded.
func (f *Facade) AddMenuItem(ctx context.Context, in model.NewMenuItem) model.MenuItem {
	items := f.FetchMenuItems(ctx)

	now := f.now()
	id := f.newID(now)
	for attempt := 1; containsID(items, id); attempt++ {
		if attempt < maxIDAttempts {
			id = f.newID(now)
			continue
		}
		id = fmt.Sprintf("%s-%d", f.newID(now), attempt)
	}

	item := model.MenuItem{
		ID:        id,
		Name:      in.Name,
		Icon:      in.Icon,
		Type:      in.Type,
		Config:    in.Config,
		Order:     in.Order,
		CreatedAt: model.FormatCreatedAt(now),
		CreatedBy: in.CreatedBy,
	}.Clone()

	items = append(items, item)
	f.SaveMenuItems(ctx, items)
	return item
}

// UpdateMenuItem merges patch over the item with the given id and saves. It returns nil,
// without saving, when no item matches.
func (f *Facade) UpdateMenuItem(ctx context.Context, id string, patch model.MenuItemPatch) *model.MenuItem {
	items := f.FetchMenuItems(ctx)

	index := indexOf(items, id)
	if index == -1 {
		return nil
	}

	items[index] = patch.Apply(items[index])
	f.SaveMenuItems(ctx, items)

	updated := items[index].Clone()
	return &updated
}

// DeleteMenuItem removes every item with the given id. It saves and returns true only if
// something was removed.
func (f *Facade) DeleteMenuItem(ctx context.Context, id string) bool {
	items := f.FetchMenuItems(ctx)

	filtered := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return false
	}

	f.SaveMenuItems(ctx, filtered)
	return true
}

// ReorderMenuItems rebuilds the collection in the order of orderedIDs, setting each item's
// order to its position in orderedIDs. Unknown ids are skipped and items whose id is not
// listed are dropped from the saved collection.
func (f *Facade) ReorderMenuItems(ctx context.Context, orderedIDs []string) []model.MenuItem {
	items := f.FetchMenuItems(ctx)

	reordered := make([]model.MenuItem, 0, len(orderedIDs))
	for position, id := range orderedIDs {
		index := indexOf(items, id)
		if index == -1 {
			continue
		}
		item := items[index].Clone()
		item.Order = position
		reordered = append(reordered, item)
	}

	f.SaveMenuItems(ctx, reordered)
	return reordered
}

// writeCache stores items under CacheKey. Failures are logged and reported, never raised.
func (f *Facade) writeCache(ctx context.Context, items []model.MenuItem) bool {
	if items == nil {
		items = []model.MenuItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		f.logger.WithContext(ctx).Warnf("Could not encode menu items for the local cache: %v", err)
		return false
	}
	if err := f.cache.Set(ctx, CacheKey, string(payload)); err != nil {
		f.logger.WithContext(ctx).Warnf("Local cache write failed: %v", err)
		return false
	}
	return true
}

func indexOf(items []model.MenuItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func containsID(items []model.MenuItem, id string) bool {
	return indexOf(items, id) != -1
}
