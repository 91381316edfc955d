package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/menu/domain/repository"
	apperrors "menu-portal/internal/shared/errors"
	"menu-portal/internal/shared/eventbus"
	"menu-portal/internal/shared/logger"
	"menu-portal/internal/shared/metrics"
	"menu-portal/internal/shared/utils"

	"github.com/go-playground/validator/v10"
)

// Messages returned to callers of the collection endpoint
const (
	WarningNotConfigured     = "Redis not configured. Using default items. Please set REDIS_URL and REDIS_TOKEN environment variables."
	WarningClientUnavailable = "Redis client unavailable. Verify REDIS_URL and REDIS_TOKEN."

	ErrMsgInvalidItem       = "Invalid item structure"
	ErrMsgNotConfigured     = "Redis not configured. Please set REDIS_URL and REDIS_TOKEN environment variables."
	ErrMsgClientUnavailable = "Redis client unavailable after configuration check. Verify REDIS environment variables."
	ErrMsgSaveFailed        = "Failed to save menu items"
)

// DetailItems is the AppError detail key echoing the submitted collection
const DetailItems = "items"

// Reasons recorded on degraded reads and failed writes
const (
	reasonNotConfigured     = "not_configured"
	reasonClientUnavailable = "client_unavailable"
	reasonStoreError        = "store_error"
	reasonSeedFailed        = "seed_failed"
	reasonValidation        = "validation"
)

const eventSource = "menu.usecase"

// ListMenuItemsResult is the outcome of a read. Warning is set only when the store is
// not configured or its client is unavailable.
type ListMenuItemsResult struct {
	Items   []model.MenuItem
	Warning string
}

// MenuItemsEvent is the payload of the saved and seeded events
type MenuItemsEvent struct {
	Count int
	IDs   []string
}

// MenuUsecaseInterface defines the operations behind the collection endpoint
type MenuUsecaseInterface interface {
	ListMenuItems(ctx context.Context) ListMenuItemsResult
	SaveMenuItems(ctx context.Context, items []model.MenuItem) ([]model.MenuItem, error)
	IsStoreConfigured() bool
}

// MenuUsecase reads and overwrites the persisted menu collection, degrading to the
// compiled-in defaults whenever the store cannot serve a read.
type MenuUsecase struct {
	provider  repository.StoreProvider
	publisher eventbus.Publisher
	logger    logger.Logger
	metrics   *metrics.Collector
	validate  *validator.Validate
	defaults  []model.MenuItem
}

// NewMenuUsecase creates the usecase. defaults is the seed collection, stamped once at startup.
// publisher and collector may be nil.
func NewMenuUsecase(
	provider repository.StoreProvider,
	publisher eventbus.Publisher,
	log logger.Logger,
	collector *metrics.Collector,
	defaults []model.MenuItem,
) *MenuUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if defaults == nil {
		defaults = model.DefaultMenuItems(time.Now())
	}
	return &MenuUsecase{
		provider:  provider,
		publisher: publisher,
		logger:    log.WithComponent("menu_usecase"),
		metrics:   collector,
		validate:  validator.New(),
		defaults:  model.CloneMenuItems(defaults),
	}
}

// IsStoreConfigured reports whether the backing store has credentials
func (uc *MenuUsecase) IsStoreConfigured() bool {
	return uc.provider.IsConfigured()
}

// Defaults returns a copy of the seed collection
func (uc *MenuUsecase) Defaults() []model.MenuItem {
	return model.CloneMenuItems(uc.defaults)
}

// ListMenuItems returns the stored collection. It never fails: every store problem degrades
// to the defaults, with a warning when the cause is configuration or client availability.
func (uc *MenuUsecase) ListMenuItems(ctx context.Context) ListMenuItemsResult {
	ctx = utils.WithOperation(ctx, "list_menu_items")
	log := uc.logger.WithContext(ctx)

	if !uc.provider.IsConfigured() {
		uc.metrics.RecordDegradedRead(reasonNotConfigured)
		log.Warn("Menu store not configured, serving default items")
		return ListMenuItemsResult{Items: uc.Defaults(), Warning: WarningNotConfigured}
	}

	store, ok := uc.provider.MenuStore()
	if !ok {
		uc.metrics.RecordDegradedRead(reasonClientUnavailable)
		log.Warn("Menu store client unavailable, serving default items")
		return ListMenuItemsResult{Items: uc.Defaults(), Warning: WarningClientUnavailable}
	}

	items, err := store.GetMenuItems(ctx)
	if err == nil {
		return ListMenuItemsResult{Items: items}
	}

	if errors.Is(err, repository.ErrCollectionNotFound) || errors.Is(err, repository.ErrInvalidCollection) {
		defaults := uc.Defaults()
		if err := store.SaveMenuItems(ctx, defaults); err != nil {
			uc.metrics.RecordDegradedRead(reasonSeedFailed)
			log.Errorf("Error seeding menu items: %v", err)
			return ListMenuItemsResult{Items: uc.Defaults()}
		}
		log.Infof("Seeded menu collection with %d default items", len(defaults))
		uc.publish(ctx, eventbus.EventTypeMenuItemsSeeded, defaults)
		return ListMenuItemsResult{Items: uc.Defaults()}
	}

	uc.metrics.RecordDegradedRead(reasonStoreError)
	log.Errorf("Error fetching menu items: %v", err)
	return ListMenuItemsResult{Items: uc.Defaults()}
}

// SaveMenuItems validates and overwrites the whole collection, returning the items as stored.
func (uc *MenuUsecase) SaveMenuItems(ctx context.Context, items []model.MenuItem) ([]model.MenuItem, error) {
	ctx = utils.WithOperation(ctx, "save_menu_items")
	log := uc.logger.WithContext(ctx)

	if verr := uc.validateItems(items); verr != nil {
		uc.metrics.RecordWriteFailure(reasonValidation)
		log.Debugf("Rejected menu collection: %v", verr)
		return nil, verr.ToAppError(ErrMsgInvalidItem)
	}

	if items == nil {
		items = []model.MenuItem{}
	}

	if !uc.provider.IsConfigured() {
		uc.metrics.RecordWriteFailure(reasonNotConfigured)
		log.Warn("Menu store not configured, collection was not saved")
		return nil, apperrors.NewConfigurationError(ErrMsgNotConfigured).
			WithComponent("menu").
			WithDetail(DetailItems, items)
	}

	store, ok := uc.provider.MenuStore()
	if !ok {
		uc.metrics.RecordWriteFailure(reasonClientUnavailable)
		log.Warn("Menu store client unavailable, collection was not saved")
		return nil, apperrors.NewAvailabilityError(ErrMsgClientUnavailable).WithComponent("menu")
	}

	if err := store.SaveMenuItems(ctx, items); err != nil {
		uc.metrics.RecordWriteFailure(reasonStoreError)
		log.Errorf("Error saving menu items: %v", err)
		return nil, apperrors.WrapError(err, ErrMsgSaveFailed).WithComponent("menu")
	}

	log.Infof("Saved menu collection with %d items", len(items))
	uc.publish(ctx, eventbus.EventTypeMenuItemsSaved, items)
	return items, nil
}

// validateItems checks that every item carries id, name, type and config
func (uc *MenuUsecase) validateItems(items []model.MenuItem) *apperrors.ValidationErrors {
	verrs := apperrors.NewValidationErrors()
	for i, item := range items {
		err := uc.validate.Struct(item)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verrs.Add(fmt.Sprintf("items[%d]", i), err.Error(), nil)
			continue
		}
		for _, fe := range fieldErrs {
			verrs.Add(fmt.Sprintf("items[%d].%s", i, fe.Field()), fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()), item.ID)
		}
	}
	if verrs.HasErrors() {
		return verrs
	}
	return nil
}

func (uc *MenuUsecase) publish(ctx context.Context, eventType string, items []model.MenuItem) {
	if uc.publisher == nil {
		return
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	uc.publisher.PublishAndForget(ctx, eventbus.NewEvent(eventType, eventSource, MenuItemsEvent{
		Count: len(items),
		IDs:   ids,
	}))
}
