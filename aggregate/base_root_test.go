package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/aggregate"
)

type counterIncremented struct {
	By int `json:"by"`
}

// counter is a minimal aggregate used to exercise the record and replay
// mechanics
type counter struct {
	aggregate.BaseRoot

	total int
}

func newCounter(id string) *counter {
	return &counter{BaseRoot: aggregate.NewBaseRoot(id)}
}

func (c *counter) Increment(by int) {
	aggregate.RecordThat(c, "counter.incremented", &counterIncremented{By: by})
}

func (c *counter) Apply(event ledgercore.DomainEvent) {
	if payload, ok := event.Payload.(*counterIncremented); ok {
		c.total += payload.By
	}
}

func TestRecordThat(t *testing.T) {
	c := newCounter("counter-1")
	c.Increment(2)
	c.Increment(3)

	assert.Equal(t, 5, c.total)
	assert.Equal(t, "counter-1", c.AggregateID())
	assert.Equal(t, ledgercore.VersionNotPersisted, c.CommittedVersion())

	pending := c.PendingEvents()
	require.Len(t, pending, 2)
	for _, event := range pending {
		assert.Equal(t, "counter-1", event.AggregateID)
		assert.Equal(t, "counter.incremented", event.EventName)
		assert.Equal(t, ledgercore.VersionNotPersisted, event.Version)
		assert.False(t, event.OccurredAt.IsZero())
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", event.EventID.String())
	}
}

func TestPendingEventsReturnsCopy(t *testing.T) {
	c := newCounter("counter-1")
	c.Increment(1)

	pending := c.PendingEvents()
	pending[0].EventName = "mutated"

	assert.Equal(t, "counter.incremented", c.PendingEvents()[0].EventName)
}

func TestClearPendingEvents(t *testing.T) {
	c := newCounter("counter-1")
	c.Increment(1)
	c.Increment(1)

	c.ClearPendingEvents()

	assert.Empty(t, c.PendingEvents())
	assert.Equal(t, 1, c.CommittedVersion())
	assert.Equal(t, 2, c.total, "derived state must survive clearing")
}

func TestReplay(t *testing.T) {
	events := []ledgercore.DomainEvent{
		ledgercore.NewDomainEvent("counter-1", "counter.incremented", &counterIncremented{By: 2}).WithVersion(0),
		ledgercore.NewDomainEvent("counter-1", "counter.incremented", &counterIncremented{By: 3}).WithVersion(1),
	}

	c := &counter{}
	require.NoError(t, aggregate.Replay(c, events))

	assert.Equal(t, 5, c.total)
	assert.Equal(t, "counter-1", c.AggregateID())
	assert.Equal(t, 1, c.CommittedVersion())
	assert.Empty(t, c.PendingEvents(), "replayed facts must not be re-queued")
}

func TestReplayValidation(t *testing.T) {
	t.Run("empty stream", func(t *testing.T) {
		err := aggregate.Replay(&counter{}, nil)

		assert.ErrorIs(t, err, aggregate.ErrEmptyEventStream)
	})

	t.Run("mixed aggregate ids", func(t *testing.T) {
		events := []ledgercore.DomainEvent{
			ledgercore.NewDomainEvent("counter-1", "counter.incremented", &counterIncremented{By: 1}).WithVersion(0),
			ledgercore.NewDomainEvent("counter-2", "counter.incremented", &counterIncremented{By: 1}).WithVersion(1),
		}

		err := aggregate.Replay(&counter{}, events)

		assert.ErrorIs(t, err, aggregate.ErrStreamIDMismatch)
	})

	t.Run("non ascending versions", func(t *testing.T) {
		events := []ledgercore.DomainEvent{
			ledgercore.NewDomainEvent("counter-1", "counter.incremented", &counterIncremented{By: 1}).WithVersion(1),
			ledgercore.NewDomainEvent("counter-1", "counter.incremented", &counterIncremented{By: 1}).WithVersion(1),
		}

		err := aggregate.Replay(&counter{}, events)

		assert.ErrorIs(t, err, aggregate.ErrStreamNotAscending)
	})
}
