// Package amqp provides a RabbitMQ backed EventBus.
//
// Events are published to a durable topic exchange with the event name as the
// routing key and marked persistent, so a publish that returns nil has
// durably reached the broker. Each subscriber consumes from its own
// temporary, exclusive queue bound to the event name; consumption is
// manual-acknowledge and a handler failure negatively acknowledges without
// requeuing, avoiding infinite poison-message loops.
package amqp

import (
	"context"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/meridianbank/ledgercore"
)

const (
	exchangeName = "domain_events"
	exchangeType = "topic"
)

// Ensure that we satisfy the ledgercore.EventBus interface
var _ ledgercore.EventBus = &EventBus{}

// Channel is the subset of the amqp channel used for publishing
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventBus a RabbitMQ event bus implementation
type EventBus struct {
	amqpDSN  string
	registry *ledgercore.PayloadRegistry
	logger   ledgercore.Logger
	metrics  ledgercore.Metrics

	mux        sync.Mutex
	connection *amqp.Connection
	channel    Channel
}

// NewEventBus returns a new amqp.EventBus
func NewEventBus(
	amqpDSN string,
	registry *ledgercore.PayloadRegistry,
	logger ledgercore.Logger,
	metrics ledgercore.Metrics,
) (*EventBus, error) {
	if _, err := amqp.ParseURI(amqpDSN); err != nil {
		return nil, ledgercore.InvalidArgumentError("amqpDSN")
	}
	if registry == nil {
		return nil, ledgercore.InvalidArgumentError("registry")
	}
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	if metrics == nil {
		metrics = ledgercore.NopMetrics
	}

	return &EventBus{
		amqpDSN:  amqpDSN,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Publish sends the event to the exchange routed by its event name
func (b *EventBus) Publish(ctx context.Context, event ledgercore.DomainEvent) error {
	body, err := ledgercore.MarshalEvent(event)
	if err != nil {
		return err
	}

	start := time.Now()

	for {
		b.mux.Lock()
		if b.connection == nil {
			if err := b.connect(); err != nil {
				b.mux.Unlock()
				return err
			}
		}
		channel := b.channel
		b.mux.Unlock()

		err = channel.Publish(exchangeName, event.EventName, false, false, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    event.OccurredAt,
			MessageId:    event.EventID.String(),
			Body:         body,
		})
		if err == amqp.ErrClosed || err == amqp.ErrFrame || err == amqp.ErrUnexpectedFrame {
			b.disconnect()
			continue
		}
		if err != nil {
			return err
		}

		b.metrics.EventPublished(event.EventName)
		b.metrics.PublishDuration(time.Since(start))

		return nil
	}
}

// Subscribe binds a temporary exclusive queue to the event name and consumes
// it on a background goroutine until the underlying connection closes
func (b *EventBus) Subscribe(eventName string, handler ledgercore.EventHandler) error {
	if handler == nil {
		return ledgercore.InvalidArgumentError("handler")
	}

	b.mux.Lock()
	if b.connection == nil {
		if err := b.connect(); err != nil {
			b.mux.Unlock()
			return err
		}
	}
	connection := b.connection
	b.mux.Unlock()

	channel, err := connection.Channel()
	if err != nil {
		return err
	}

	queue, err := channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}
	if err := channel.QueueBind(queue.Name, eventName, exchangeName, false, nil); err != nil {
		return err
	}

	// One unacknowledged message at a time per subscriber
	if err := channel.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := channel.Consume(queue.Name, "", false, true, false, false, nil)
	if err != nil {
		return err
	}

	go b.consume(eventName, deliveries, handler)

	return nil
}

// Close closes the underlying connection, ending all subscriptions
func (b *EventBus) Close() error {
	b.mux.Lock()
	defer b.mux.Unlock()

	if b.connection == nil {
		return nil
	}

	connection := b.connection
	b.connection = nil
	b.channel = nil

	return connection.Close()
}

func (b *EventBus) consume(eventName string, deliveries <-chan amqp.Delivery, handler ledgercore.EventHandler) {
	logger := b.logger.WithField("event_name", eventName)

	for delivery := range deliveries {
		event, err := ledgercore.UnmarshalEvent(delivery.Body, b.registry)
		if err != nil {
			logger.WithError(err).Error("failed to unmarshal delivery, dropping message")
			b.nack(delivery, logger)
			continue
		}

		if err := handler(context.Background(), event); err != nil {
			logger.
				WithError(err).
				WithField("aggregate_id", event.AggregateID).
				Error("event handler failed, message not requeued")
			b.nack(delivery, logger)
			continue
		}

		if err := delivery.Ack(false); err != nil {
			logger.WithError(err).Error("failed to acknowledge delivery")
		}
	}
}

func (b *EventBus) nack(delivery amqp.Delivery, logger ledgercore.Logger) {
	if err := delivery.Nack(false, false); err != nil {
		logger.WithError(err).Error("failed to negatively acknowledge delivery")
	}
}

// connect must be called with the mutex held
func (b *EventBus) connect() error {
	connection, err := amqp.Dial(b.amqpDSN)
	if err != nil {
		return err
	}

	channel, err := connection.Channel()
	if err != nil {
		return err
	}

	if err := channel.ExchangeDeclare(exchangeName, exchangeType, true, false, false, false, nil); err != nil {
		return err
	}

	b.connection = connection
	b.channel = channel

	return nil
}

func (b *EventBus) disconnect() {
	b.mux.Lock()
	defer b.mux.Unlock()

	if b.connection == nil {
		return
	}

	if err := b.connection.Close(); err != nil {
		b.logger.WithError(err).Error("failed to close amqp connection")
	}

	b.connection = nil
	b.channel = nil
}
