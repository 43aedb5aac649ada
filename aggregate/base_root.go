package aggregate

import (
	"github.com/meridianbank/ledgercore"
)

// BaseRoot is the base struct to be embedded by any aggregate root
type BaseRoot struct {
	id               string
	committedVersion int
	pendingEvents    []ledgercore.DomainEvent
}

// NewBaseRoot returns a BaseRoot for a new, never-persisted aggregate
func NewBaseRoot(id string) BaseRoot {
	return BaseRoot{
		id:               id,
		committedVersion: ledgercore.VersionNotPersisted,
	}
}

// AggregateID returns the id of the aggregate root
func (b *BaseRoot) AggregateID() string {
	return b.id
}

// PendingEvents returns the recorded events that have not been persisted yet.
// The aggregate owns its pending events exclusively until they are cleared
// after a successful persist+publish cycle.
func (b *BaseRoot) PendingEvents() []ledgercore.DomainEvent {
	events := make([]ledgercore.DomainEvent, len(b.pendingEvents))
	copy(events, b.pendingEvents)

	return events
}

// ClearPendingEvents empties the pending list and advances the committed
// version past the cleared events. It must only be called after the pending
// events have been appended to the store and published.
func (b *BaseRoot) ClearPendingEvents() {
	b.committedVersion += len(b.pendingEvents)
	b.pendingEvents = nil
}

// CommittedVersion returns the stream version of the last persisted event.
// It is the expectedVersion an append of the pending events must use.
func (b *BaseRoot) CommittedVersion() int {
	return b.committedVersion
}

func (b *BaseRoot) recordThat(aggregate EventApplier, event ledgercore.DomainEvent) {
	aggregate.Apply(event)

	b.pendingEvents = append(b.pendingEvents, event)
}

func (b *BaseRoot) replay(aggregate EventApplier, events []ledgercore.DomainEvent) {
	b.id = events[0].AggregateID

	for _, pastEvent := range events {
		b.committedVersion = pastEvent.Version

		aggregate.Apply(pastEvent)
	}
}
