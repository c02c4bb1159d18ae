package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

type subscription struct {
	handler EventHandler
	types   []DeckEventType
}

func (s subscription) wants(t DeckEventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// InMemoryEventEmitter delivers deck events to handlers in the calling
// goroutine, in the order the handlers were registered.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "deck_event_emitter"),
	}
}

// RegisterHandler subscribes handler to every deck event.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.RegisterHandlerFor(handler)
}

// RegisterHandlerFor subscribes handler to the listed event types only.
// With no types it receives everything.
func (e *InMemoryEventEmitter) RegisterHandlerFor(handler EventHandler, types ...DeckEventType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{handler: handler, types: types})
	e.logger.Debug("deck event handler registered",
		"handler_count", len(e.subs),
		"event_types", types)
}

// HandlerCount returns the number of registered handlers.
func (e *InMemoryEventEmitter) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// EmitEvent hands event to each subscribed handler. A failing or panicking
// handler does not stop delivery to the rest; their errors are joined.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *DeckEvent) error {
	if event == nil {
		return nil
	}

	e.mu.RLock()
	subs := slices.Clone(e.subs)
	e.mu.RUnlock()

	log := e.logger.With(
		"event_id", event.ID,
		"event_type", event.Type,
		"deck_id", event.DeckID)
	log.Debug("emitting deck event", "handler_count", len(subs))

	var errs []error
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		if err := deliver(ctx, sub.handler, event); err != nil {
			log.Error("deck event handler failed", "handler_index", i, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, handler EventHandler, event *DeckEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	return handler.HandleEvent(ctx, event)
}
