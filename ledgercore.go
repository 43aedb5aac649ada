package ledgercore

import "context"

type (
	// EventStore is a durable, per-aggregate, strictly ordered event log with
	// compare-and-append semantics.
	EventStore interface {
		// ReadStream returns all events for the aggregate ordered by ascending
		// version. An empty slice with a nil error means the aggregate does
		// not exist.
		ReadStream(ctx context.Context, aggregateID string) ([]DomainEvent, error)

		// AppendToStream atomically compares the aggregate's checkpoint version
		// against expectedVersion and, when they match, assigns each event the
		// next sequential version and writes all of them. A mismatch results in
		// a *ConcurrencyError and nothing is written. expectedVersion -1 means
		// the aggregate must not yet exist. Appending zero events is a no-op.
		AppendToStream(ctx context.Context, aggregateID string, events []DomainEvent, expectedVersion int) error

		// LookupAggregateIDs returns the ids of aggregates whose event of the
		// given name carries payloadField equal to value. This is a read-only
		// secondary lookup and is not concurrency-checked.
		LookupAggregateIDs(ctx context.Context, eventName, payloadField, value string) ([]string, error)
	}

	// EventHandler is invoked once per matching published event
	EventHandler func(ctx context.Context, event DomainEvent) error

	// EventBus delivers persisted events to interested subscribers, decoupled
	// from the EventStore.
	EventBus interface {
		// Publish delivers the event to all current subscribers of the event's
		// name. Delivery is at-least-once; once Publish returns nil the message
		// has durably reached the broker. Subscriber failures are not retried
		// by the bus.
		Publish(ctx context.Context, event DomainEvent) error

		// Subscribe registers a handler for events with the given name.
		// Invocation order across different subscribers is unspecified. A
		// handler error results in a negative acknowledgement without requeue.
		Subscribe(eventName string, handler EventHandler) error
	}
)
