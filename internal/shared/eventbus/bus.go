package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"menu-portal/internal/shared/logger"
)

// Event types published by the menu module
const (
	EventTypeMenuItemsSaved  = "menu.items.saved"
	EventTypeMenuItemsSeeded = "menu.items.seeded"
)

// Event is a notification delivered to every handler subscribed to its type
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler reacts to one event. A returned error triggers the bus retry policy.
type Handler func(ctx context.Context, event Event) error

// Publisher is what producers depend on
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	PublishAndForget(ctx context.Context, event Event)
}

// BusConfig controls delivery
type BusConfig struct {
	// AsyncProcessing runs the handlers of one event concurrently
	AsyncProcessing bool
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultBusConfig delivers sequentially with three retries
func DefaultBusConfig() BusConfig {
	return BusConfig{
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
	}
}

// EventBus is an in-process bus. Fire-and-forget deliveries are tracked so Drain can wait
// for them at shutdown.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
	logger   logger.Logger
	config   BusConfig
}

// NewEventBus creates a bus with DefaultBusConfig
func NewEventBus(log logger.Logger) *EventBus {
	return NewEventBusWithConfig(log, DefaultBusConfig())
}

// NewEventBusWithConfig creates a bus with an explicit delivery policy
func NewEventBusWithConfig(log logger.Logger, config BusConfig) *EventBus {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   log.WithComponent("eventbus"),
		config:   config,
	}
}

// Subscribe registers handler for eventType
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.mu.Unlock()

	eb.logger.Debugf("Subscribed handler to %s", eventType)
}

// SubscriberCount returns how many handlers listen to eventType
func (eb *EventBus) SubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

// Publish delivers event and waits for every handler. The returned error joins the
// failures of all handlers that exhausted their retries.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	handlers := append([]Handler(nil), eb.handlers[event.Type()]...)
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	errs := make([]error, len(handlers))
	if eb.config.AsyncProcessing {
		var wg sync.WaitGroup
		for i, handler := range handlers {
			i, handler := i, handler
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = eb.deliver(ctx, event, handler, i)
			}()
		}
		wg.Wait()
	} else {
		for i, handler := range handlers {
			errs[i] = eb.deliver(ctx, event, handler, i)
		}
	}
	return errors.Join(errs...)
}

// PublishAndForget delivers event in the background. Handlers see a context that keeps
// ctx's values but not its cancellation, so a finished request does not abort them.
func (eb *EventBus) PublishAndForget(ctx context.Context, event Event) {
	detached := context.WithoutCancel(ctx)
	eb.inflight.Add(1)
	go func() {
		defer eb.inflight.Done()
		if err := eb.Publish(detached, event); err != nil {
			eb.logger.WithContext(detached).Errorf("Delivery of %s from %s failed: %v", event.Type(), event.Source(), err)
		}
	}()
}

// Drain waits for background deliveries started by PublishAndForget, or for ctx to end
func (eb *EventBus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		eb.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus drain: %w", ctx.Err())
	}
}

func (eb *EventBus) deliver(ctx context.Context, event Event, handler Handler, index int) error {
	var err error
	for attempt := 0; attempt <= eb.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("handler %d for %s: %w", index, event.Type(), ctx.Err())
			case <-time.After(eb.config.RetryDelay):
			}
		}
		if err = handler(ctx, event); err == nil {
			return nil
		}
		eb.logger.Warnf("Handler %d for %s failed (attempt %d/%d): %v",
			index, event.Type(), attempt+1, eb.config.MaxRetries+1, err)
	}
	return fmt.Errorf("handler %d for %s gave up after %d attempts: %w",
		index, event.Type(), eb.config.MaxRetries+1, err)
}

type envelope struct {
	eventType string
	source    string
	data      interface{}
	at        time.Time
}

// NewEvent stamps data with the current UTC time
func NewEvent(eventType, source string, data interface{}) Event {
	return envelope{eventType: eventType, source: source, data: data, at: time.Now().UTC()}
}

func (e envelope) Type() string         { return e.eventType }
func (e envelope) Data() interface{}    { return e.data }
func (e envelope) Timestamp() time.Time { return e.at }
func (e envelope) Source() string       { return e.source }
