package inmemory

import (
	"context"
	"sync"

	"github.com/meridianbank/ledgercore"
)

// Ensure that we satisfy the ledgercore.EventBus interface
var _ ledgercore.EventBus = &EventBus{}

// EventBus an in-memory event bus that invokes subscribers synchronously.
// A handler failure is logged and does not stop delivery to the remaining
// subscribers; redelivery is not attempted.
type EventBus struct {
	sync.RWMutex

	logger   ledgercore.Logger
	handlers map[string][]ledgercore.EventHandler
}

// NewEventBus returns a new inmemory.EventBus
func NewEventBus(logger ledgercore.Logger) *EventBus {
	if logger == nil {
		logger = ledgercore.NopLogger
	}

	return &EventBus{
		logger:   logger,
		handlers: map[string][]ledgercore.EventHandler{},
	}
}

// Publish delivers the event to every subscriber of its event name
func (b *EventBus) Publish(ctx context.Context, event ledgercore.DomainEvent) error {
	b.RLock()
	handlers := b.handlers[event.EventName]
	b.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.
				WithError(err).
				WithField("event_name", event.EventName).
				WithField("aggregate_id", event.AggregateID).
				Error("event handler failed, message dropped")
		}
	}

	return nil
}

// Subscribe registers a handler for events with the given name
func (b *EventBus) Subscribe(eventName string, handler ledgercore.EventHandler) error {
	if handler == nil {
		return ledgercore.InvalidArgumentError("handler")
	}

	b.Lock()
	defer b.Unlock()

	b.handlers[eventName] = append(b.handlers[eventName], handler)

	return nil
}
