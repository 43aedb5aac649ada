package ledgercore

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// eventEnvelope is the wire shape of a persisted or published event
type eventEnvelope struct {
	EventID     string              `json:"eventId"`
	AggregateID string              `json:"aggregateId"`
	EventName   string              `json:"eventName"`
	Payload     jsoniter.RawMessage `json:"payload"`
	OccurredAt  time.Time           `json:"occurredAt"`
	Version     *int                `json:"version,omitempty"`
}

// MarshalEvent serializes the event into its wire shape. The version field is
// only present on events that have been persisted.
func MarshalEvent(event DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}

	envelope := eventEnvelope{
		EventID:     event.EventID.String(),
		AggregateID: event.AggregateID,
		EventName:   event.EventName,
		Payload:     payload,
		OccurredAt:  event.OccurredAt,
	}
	if event.Version != VersionNotPersisted {
		version := event.Version
		envelope.Version = &version
	}

	return json.Marshal(envelope)
}

// UnmarshalEvent deserializes an event from its wire shape, using the registry
// to reconstruct the typed payload for the event name.
func UnmarshalEvent(data []byte, registry *PayloadRegistry) (DomainEvent, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return DomainEvent{}, err
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		return DomainEvent{}, err
	}

	payload, err := registry.CreatePayload(envelope.EventName)
	if err != nil {
		return DomainEvent{}, err
	}
	if err := json.Unmarshal(envelope.Payload, payload); err != nil {
		return DomainEvent{}, err
	}

	version := VersionNotPersisted
	if envelope.Version != nil {
		version = *envelope.Version
	}

	return DomainEvent{
		EventID:     eventID,
		AggregateID: envelope.AggregateID,
		EventName:   envelope.EventName,
		Payload:     payload,
		OccurredAt:  envelope.OccurredAt,
		Version:     version,
	}, nil
}
