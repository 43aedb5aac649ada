package ledgercore

import "time"

// Metrics is used to monitor the event store and event bus
type Metrics interface {
	// EventAppended counts an event written to the store
	EventAppended(eventName string)
	// EventPublished counts an event delivered to the bus
	EventPublished(eventName string)
	// AppendDuration observes the duration of a store append
	AppendDuration(duration time.Duration)
	// PublishDuration observes the duration of a bus publish
	PublishDuration(duration time.Duration)
}
