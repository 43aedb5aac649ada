package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/config"
	"github.com/meridianbank/ledgercore/driver/inmemory"
	"github.com/meridianbank/ledgercore/money"
	"github.com/meridianbank/ledgercore/provider"
)

func testConfig() config.Config {
	return config.Config{
		Bank: config.Bank{Name: "Meridian Bank", Code: "MERIDIAN", Currency: "USD"},
		Features: config.Features{
			SavingsAccounts:   true,
			BitcoinCollateral: true,
		},
		Limits: config.Limits{
			MinimumAccountBalance: 50,
			WithdrawalLimits: config.WithdrawalLimits{
				Checking: 500,
				Savings:  200,
			},
		},
		Risk: config.Risk{
			DefaultCustomerRiskLevel: 1,
			ManualReviewThreshold:    7,
			BlockThreshold:           9,
		},
		Compliance: config.Compliance{KYCRequired: true},
	}
}

func usd(t *testing.T, minor int64) money.Money {
	t.Helper()

	m, err := money.FromMinorUnits(minor, "USD")
	require.NoError(t, err)

	return m
}

// eventRecorder captures every event published for the given names
type eventRecorder struct {
	events []ledgercore.DomainEvent
}

func recordEvents(t *testing.T, bus ledgercore.EventBus, eventNames ...string) *eventRecorder {
	t.Helper()

	recorder := &eventRecorder{}
	for _, eventName := range eventNames {
		require.NoError(t, bus.Subscribe(eventName, func(ctx context.Context, event ledgercore.DomainEvent) error {
			recorder.events = append(recorder.events, event)
			return nil
		}))
	}

	return recorder
}

func (r *eventRecorder) names() []string {
	names := make([]string, 0, len(r.events))
	for _, event := range r.events {
		names = append(names, event.EventName)
	}

	return names
}

type serviceFixture struct {
	store *inmemory.EventStore
	bus   *inmemory.EventBus
}

func newStoreAndBus() (*inmemory.EventStore, *inmemory.EventBus) {
	return inmemory.NewEventStore(nil), inmemory.NewEventBus(nil)
}

// stubKYC returns a fixed verification outcome
type stubKYC struct {
	result provider.KYCResult
	err    error
}

func (s *stubKYC) VerifyIdentity(ctx context.Context, customerID string, documents map[string]string) (provider.KYCResult, error) {
	return s.result, s.err
}

// stubFraud returns a fixed fraud score
type stubFraud struct {
	result provider.FraudResult
	err    error
}

func (s *stubFraud) CheckTransaction(ctx context.Context, payload map[string]interface{}) (provider.FraudResult, error) {
	return s.result, s.err
}

func streamLength(t *testing.T, store ledgercore.EventStore, aggregateID string) int {
	t.Helper()

	events, err := store.ReadStream(context.Background(), aggregateID)
	require.NoError(t, err)

	return len(events)
}
