package ledgercore

import (
	"errors"
	"reflect"
)

var (
	// ErrUnknownEventName occurs when an event name has no registered payload type
	ErrUnknownEventName = errors.New("ledgercore: unknown event name was provided")
	// ErrDuplicateEventName occurs when an event name is already registered
	ErrDuplicateEventName = errors.New("ledgercore: event name is already registered")
)

// PayloadRegistry maps event names to payload types so that stores and buses
// can reconstruct typed payloads from their serialized form.
type PayloadRegistry struct {
	types map[string]reflect.Type
}

// NewPayloadRegistry returns an empty PayloadRegistry
func NewPayloadRegistry() *PayloadRegistry {
	return &PayloadRegistry{
		types: map[string]reflect.Type{},
	}
}

// RegisterPayload registers an event name with a payload prototype.
// Reflection is used to determine the underlying payload type, so both a
// struct and a pointer to a struct are accepted.
func (p *PayloadRegistry) RegisterPayload(eventName string, payload interface{}) error {
	if _, found := p.types[eventName]; found {
		return ErrDuplicateEventName
	}

	payloadType := reflect.TypeOf(payload)
	if payloadType.Kind() == reflect.Ptr {
		payloadType = payloadType.Elem()
	}

	p.types[eventName] = payloadType

	return nil
}

// CreatePayload returns a pointer to a new zero value of the payload type
// registered for the event name
func (p *PayloadRegistry) CreatePayload(eventName string) (interface{}, error) {
	payloadType, found := p.types[eventName]
	if !found {
		return nil, ErrUnknownEventName
	}

	return reflect.New(payloadType).Interface(), nil
}

// EventNames returns the registered event names
func (p *PayloadRegistry) EventNames() []string {
	names := make([]string, 0, len(p.types))
	for name := range p.types {
		names = append(names, name)
	}

	return names
}
