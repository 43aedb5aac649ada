// Package aggregate provides the base abstraction for event-sourced
// aggregates: identity, a list of not-yet-persisted events, and
// record/replay semantics.
package aggregate

import (
	"errors"

	"github.com/meridianbank/ledgercore"
)

var (
	// ErrEmptyEventStream occurs when an aggregate is replayed from an empty event stream
	ErrEmptyEventStream = errors.New("unsupported empty event stream")
	// ErrStreamIDMismatch occurs when a replayed event stream contains multiple aggregate ids
	ErrStreamIDMismatch = errors.New("event stream contains events for multiple aggregates")
	// ErrStreamNotAscending occurs when a replayed event stream is not in ascending version order
	ErrStreamNotAscending = errors.New("event stream versions must be ascending")
)

type (
	// EventApplier applies a committed event to the aggregate's derived state.
	// By the time an event reaches Apply it is already a fact: Apply mutates
	// only derived state, never triggers side effects and never fails.
	EventApplier interface {
		Apply(event ledgercore.DomainEvent)
	}

	// Root is the interface implemented by an aggregate root that embeds BaseRoot
	Root interface {
		EventApplier

		// AggregateID returns the id of the aggregate root
		AggregateID() string
		// PendingEvents returns the recorded events that have not been persisted yet
		PendingEvents() []ledgercore.DomainEvent
		// ClearPendingEvents empties the pending list; callers must not clear
		// before a successful store+publish cycle
		ClearPendingEvents()
		// CommittedVersion returns the stream version of the last persisted
		// event, or ledgercore.VersionNotPersisted for a new aggregate
		CommittedVersion() int

		recordThat(aggregate EventApplier, event ledgercore.DomainEvent)
		replay(aggregate EventApplier, events []ledgercore.DomainEvent)
	}
)

// RecordThat constructs a DomainEvent for the aggregate, applies it to the
// aggregate's derived state and queues it on the pending list. Command
// methods must validate their preconditions before calling RecordThat.
func RecordThat(root Root, eventName string, payload interface{}) {
	root.recordThat(root, ledgercore.NewDomainEvent(root.AggregateID(), eventName, payload))
}

// Replay folds Apply across a committed, version-ascending event stream of a
// single aggregate, leaving the pending list empty. Already-committed facts
// are never re-queued for persistence.
func Replay(root Root, events []ledgercore.DomainEvent) error {
	if len(events) == 0 {
		return ErrEmptyEventStream
	}

	aggregateID := events[0].AggregateID
	previousVersion := ledgercore.VersionNotPersisted
	for _, event := range events {
		if event.AggregateID != aggregateID {
			return ErrStreamIDMismatch
		}
		if event.Version <= previousVersion {
			return ErrStreamNotAscending
		}
		previousVersion = event.Version
	}

	root.replay(root, events)

	return nil
}
