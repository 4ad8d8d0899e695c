package events

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventBus is a synchronous event bus implementation
type EventBus struct {
	subscribers  map[string]Subscriber
	funcHandlers map[string][]EventHandler
	mu           sync.RWMutex
	logger       zerolog.Logger
}

// NewEventBus creates a new event bus instance
func NewEventBus() *EventBus {
	return NewEventBusWithLogger(log.Logger)
}

// NewEventBusWithLogger creates a new event bus logging to logger
func NewEventBusWithLogger(logger zerolog.Logger) *EventBus {
	return &EventBus{
		subscribers:  make(map[string]Subscriber),
		funcHandlers: make(map[string][]EventHandler),
		logger:       logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a new subscriber to the event bus
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[subscriber.ID()] = subscriber
	eb.logger.Debug().
		Str("subscriber_id", subscriber.ID()).
		Msg("Subscriber added to event bus")
}

// SubscribeFunc adds a function handler for specific event types
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], handler)

	handlerID := fmt.Sprintf("%s_func_%d", eventType, len(eb.funcHandlers[eventType]))
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", handlerID).
		Msg("Function handler added to event bus")

	return handlerID
}

// Publish delivers event synchronously, first to interested subscribers in
// ID order, then to the function handlers registered for its type
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	eventType := event.Type()
	eb.logger.Trace().
		Str("event_type", eventType).
		Str("tournament_id", event.TournamentID()).
		Msg("Publishing event")

	for _, id := range eb.sortedIDs() {
		if sub := eb.subscribers[id]; sub.InterestedIn(eventType) {
			eb.deliver(id, event, sub.HandleEvent)
		}
	}
	for i, handler := range eb.funcHandlers[eventType] {
		eb.deliver(fmt.Sprintf("%s_func_%d", eventType, i+1), event, handler)
	}
}

// deliver runs one handler, a panic is logged and does not reach the publisher
func (eb *EventBus) deliver(handlerID string, event Event, handle EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("handler_id", handlerID).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()
	handle(event)
}

func (eb *EventBus) sortedIDs() []string {
	ids := make([]string, 0, len(eb.subscribers))
	for id := range eb.subscribers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Open opens every subscriber implementing Lifecycle. If one fails, those
// already opened are closed again.
func (eb *EventBus) Open() error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	opened := make([]Lifecycle, 0, len(eb.subscribers))
	for _, id := range eb.sortedIDs() {
		lc, ok := eb.subscribers[id].(Lifecycle)
		if !ok {
			continue
		}
		if err := lc.Open(); err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return fmt.Errorf("opening subscriber %s: %w", id, err)
		}
		opened = append(opened, lc)
	}
	return nil
}

// Close closes every subscriber implementing Lifecycle
func (eb *EventBus) Close() error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	var errs []error
	for _, id := range eb.sortedIDs() {
		if lc, ok := eb.subscribers[id].(Lifecycle); ok {
			if err := lc.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing subscriber %s: %w", id, err))
			}
		}
	}
	return errors.Join(errs...)
}
