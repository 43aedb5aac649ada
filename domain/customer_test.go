package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianbank/ledgercore/domain"
)

func TestNewCustomer(t *testing.T) {
	customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "+31600000000")

	assert.Equal(t, "cust-1", customer.AggregateID())
	assert.Equal(t, "Ada Lovelace", customer.Name())
	assert.Equal(t, "ada@example.com", customer.Email())
	assert.Equal(t, "+31600000000", customer.Phone())
	assert.Equal(t, domain.CustomerStatusPendingVerification, customer.Status())
	assert.Equal(t, 0, customer.RiskLevel())
	assert.False(t, customer.ManualReviewRequired())
}

func TestCustomerVerify(t *testing.T) {
	customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "")

	require.NoError(t, customer.Verify())
	assert.Equal(t, domain.CustomerStatusVerified, customer.Status())

	t.Run("double verification is rejected", func(t *testing.T) {
		err := customer.Verify()

		assert.ErrorIs(t, err, domain.ErrCustomerAlreadyVerified)
		assert.Len(t, customer.PendingEvents(), 2, "no event is recorded for the rejected command")
	})
}

func TestCustomerVerifyAfterRejection(t *testing.T) {
	customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "")
	require.NoError(t, customer.Reject("document mismatch"))

	err := customer.Verify()

	assert.ErrorIs(t, err, domain.ErrCustomerNotPending)
	assert.Equal(t, domain.CustomerStatusRejected, customer.Status(), "rejection is terminal")
	assert.Len(t, customer.PendingEvents(), 2, "no event is recorded for the refused command")
}

func TestCustomerReject(t *testing.T) {
	t.Run("pending customer can be rejected", func(t *testing.T) {
		customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "")

		require.NoError(t, customer.Reject("document mismatch"))
		assert.Equal(t, domain.CustomerStatusRejected, customer.Status())
	})

	t.Run("verified customer cannot be rejected", func(t *testing.T) {
		customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "")
		require.NoError(t, customer.Verify())

		assert.ErrorIs(t, customer.Reject("too late"), domain.ErrCustomerNotPending)
	})

	t.Run("rejected customer cannot be verified again into pending", func(t *testing.T) {
		customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "")
		require.NoError(t, customer.Reject("document mismatch"))

		assert.ErrorIs(t, customer.Reject("again"), domain.ErrCustomerNotPending)
	})
}

func TestCustomerRiskLevel(t *testing.T) {
	customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "")

	customer.UpdateRiskLevel(5)
	assert.Equal(t, 5, customer.RiskLevel())

	customer.UpdateRiskLevel(3)
	assert.Equal(t, 3, customer.RiskLevel())
}

func TestCustomerFlagForManualReview(t *testing.T) {
	customer := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "")

	customer.FlagForManualReview("velocity anomaly")
	customer.FlagForManualReview("second report")

	assert.True(t, customer.ManualReviewRequired())
	assert.Len(t, customer.PendingEvents(), 3, "re-flagging records a new event each time")
}

func TestCustomerFromEvents(t *testing.T) {
	original := domain.NewCustomer("cust-1", "Ada Lovelace", "ada@example.com", "+31600000000")
	original.UpdateRiskLevel(8)
	original.FlagForManualReview("risk level")
	require.NoError(t, original.Verify())

	events := original.PendingEvents()
	for i := range events {
		events[i] = events[i].WithVersion(i)
	}

	replayed, err := domain.CustomerFromEvents(events)

	require.NoError(t, err)
	assert.Equal(t, original.Name(), replayed.Name())
	assert.Equal(t, original.Email(), replayed.Email())
	assert.Equal(t, domain.CustomerStatusVerified, replayed.Status())
	assert.Equal(t, 8, replayed.RiskLevel())
	assert.True(t, replayed.ManualReviewRequired())
	assert.Equal(t, 3, replayed.CommittedVersion())
}
