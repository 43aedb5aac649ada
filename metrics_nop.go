package ledgercore

import "time"

// NopMetrics is a no-op Metrics implementation, used when nil metrics are
// passed to a constructor
var NopMetrics Metrics = &nopMetrics{}

type nopMetrics struct {
}

func (nopMetrics) EventAppended(string) {
}

func (nopMetrics) EventPublished(string) {
}

func (nopMetrics) AppendDuration(time.Duration) {
}

func (nopMetrics) PublishDuration(time.Duration) {
}
