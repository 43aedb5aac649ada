package ledgercore

import (
	"time"

	"github.com/google/uuid"
)

// VersionNotPersisted is the version of an event that has not been assigned a
// stream position by an EventStore yet.
const VersionNotPersisted = -1

// DomainEvent is an immutable fact stating that something happened to a
// specific aggregate. The Version is assigned by the EventStore at append time
// (0-based stream position), never by the producer.
type DomainEvent struct {
	EventID     uuid.UUID
	AggregateID string
	EventName   string
	Payload     interface{}
	OccurredAt  time.Time
	Version     int
}

var timeNow = time.Now

// NewDomainEvent returns a not-yet-persisted DomainEvent for the given
// aggregate. The payload must be a pointer to a struct registered with the
// PayloadRegistry used by the stores and buses that will carry the event.
func NewDomainEvent(aggregateID, eventName string, payload interface{}) DomainEvent {
	return DomainEvent{
		EventID:     uuid.New(),
		AggregateID: aggregateID,
		EventName:   eventName,
		Payload:     payload,
		OccurredAt:  timeNow().UTC(),
		Version:     VersionNotPersisted,
	}
}

// WithVersion returns a copy of the event positioned at the given stream version
func (e DomainEvent) WithVersion(version int) DomainEvent {
	e.Version = version
	return e
}
