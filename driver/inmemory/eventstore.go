// Package inmemory provides in-memory EventStore and EventBus implementations
// used for tests and local development.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/meridianbank/ledgercore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ensure that we satisfy the ledgercore.EventStore interface
var _ ledgercore.EventStore = &EventStore{}

// EventStore an in-memory event store implementation
type EventStore struct {
	sync.RWMutex

	logger      ledgercore.Logger
	streams     map[string][]ledgercore.DomainEvent
	checkpoints map[string]int
}

// NewEventStore returns a new inmemory.EventStore
func NewEventStore(logger ledgercore.Logger) *EventStore {
	if logger == nil {
		logger = ledgercore.NopLogger
	}

	return &EventStore{
		logger:      logger,
		streams:     map[string][]ledgercore.DomainEvent{},
		checkpoints: map[string]int{},
	}
}

// ReadStream returns all events for the aggregate ordered by ascending version
func (s *EventStore) ReadStream(ctx context.Context, aggregateID string) ([]ledgercore.DomainEvent, error) {
	s.RLock()
	defer s.RUnlock()

	stored := s.streams[aggregateID]

	events := make([]ledgercore.DomainEvent, len(stored))
	copy(events, stored)

	return events, nil
}

// AppendToStream compares the aggregate's checkpoint against expectedVersion
// and appends the events with sequentially assigned versions
func (s *EventStore) AppendToStream(
	ctx context.Context,
	aggregateID string,
	events []ledgercore.DomainEvent,
	expectedVersion int,
) error {
	if len(events) == 0 {
		return nil
	}

	s.Lock()
	defer s.Unlock()

	currentVersion := ledgercore.VersionNotPersisted
	if checkpoint, found := s.checkpoints[aggregateID]; found {
		currentVersion = checkpoint
	}

	if currentVersion != expectedVersion {
		return &ledgercore.ConcurrencyError{
			AggregateID:     aggregateID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   currentVersion,
		}
	}

	version := expectedVersion
	stored := s.streams[aggregateID]
	for _, event := range events {
		version++
		stored = append(stored, event.WithVersion(version))
	}

	s.streams[aggregateID] = stored
	s.checkpoints[aggregateID] = version

	s.logger.
		WithField("aggregate_id", aggregateID).
		WithField("version", version).
		Debug("appended events to stream")

	return nil
}

// LookupAggregateIDs scans the stored events of the given name for a payload
// field equal to value. The payload is flattened through its JSON form so the
// lookup matches what a durable store would index.
func (s *EventStore) LookupAggregateIDs(ctx context.Context, eventName, payloadField, value string) ([]string, error) {
	s.RLock()
	defer s.RUnlock()

	var aggregateIDs []string
	for aggregateID, events := range s.streams {
		for _, event := range events {
			if event.EventName != eventName {
				continue
			}

			fields, err := payloadFields(event.Payload)
			if err != nil {
				return nil, err
			}

			if fieldValue, found := fields[payloadField]; found && fmt.Sprint(fieldValue) == value {
				aggregateIDs = append(aggregateIDs, aggregateID)
				break
			}
		}
	}

	return aggregateIDs, nil
}

func payloadFields(payload interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}
