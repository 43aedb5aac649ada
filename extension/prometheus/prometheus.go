// Package prometheus provides a ledgercore.Metrics implementation exposing
// event store and event bus measurements
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meridianbank/ledgercore"
)

const namespace = "ledgercore"

var _ ledgercore.Metrics = &Metrics{}

// Metrics is an object for exposing prometheus metrics
type Metrics struct {
	appendedCounter  *prometheus.CounterVec
	publishedCounter *prometheus.CounterVec
	appendDuration   prometheus.Histogram
	publishDuration  prometheus.Histogram
}

// NewMetrics instantiates and returns an object of Metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// appendedCounter is used to expose the 'events_appended_total' metric
		appendedCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_appended_total",
				Help:      "counter for the number of events appended to the store",
			},
			[]string{"event_name"},
		),
		// publishedCounter is used to expose the 'events_published_total' metric
		publishedCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "counter for the number of events published to the bus",
			},
			[]string{"event_name"},
		),
		// appendDuration is used to expose the 'append_duration_seconds' metric
		appendDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "append_duration_seconds",
				Help:      "histogram of store append latencies",
				Buckets:   prometheus.DefBuckets,
			},
		),
		// publishDuration is used to expose the 'publish_duration_seconds' metric
		publishDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "publish_duration_seconds",
				Help:      "histogram of bus publish latencies",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// RegisterMetrics registers the metrics with the provided registry
func (m *Metrics) RegisterMetrics(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		m.appendedCounter,
		m.publishedCounter,
		m.appendDuration,
		m.publishDuration,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// EventAppended counts an event written to the store
func (m *Metrics) EventAppended(eventName string) {
	m.appendedCounter.With(prometheus.Labels{"event_name": eventName}).Inc()
}

// EventPublished counts an event delivered to the bus
func (m *Metrics) EventPublished(eventName string) {
	m.publishedCounter.With(prometheus.Labels{"event_name": eventName}).Inc()
}

// AppendDuration observes the duration of a store append
func (m *Metrics) AppendDuration(duration time.Duration) {
	m.appendDuration.Observe(duration.Seconds())
}

// PublishDuration observes the duration of a bus publish
func (m *Metrics) PublishDuration(duration time.Duration) {
	m.publishDuration.Observe(duration.Seconds())
}
