package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianbank/ledgercore/aggregate"
	"github.com/meridianbank/ledgercore/domain"
	"github.com/meridianbank/ledgercore/money"
)

func usd(t *testing.T, minor int64) money.Money {
	t.Helper()

	m, err := money.FromMinorUnits(minor, "USD")
	require.NoError(t, err)

	return m
}

func TestNewAccount(t *testing.T) {
	account := domain.NewAccount("acc-1", "cust-1", domain.AccountTypeChecking, usd(t, 10000))

	assert.Equal(t, "acc-1", account.AggregateID())
	assert.Equal(t, "cust-1", account.CustomerID())
	assert.Equal(t, domain.AccountTypeChecking, account.Type())
	assert.Equal(t, domain.AccountStatusOpen, account.Status())
	assert.Equal(t, int64(10000), account.Balance().Amount())

	pending := account.PendingEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, domain.AccountCreatedName, pending[0].EventName)
}

func TestAccountDepositThenWithdraw(t *testing.T) {
	account := domain.NewAccount("acc-1", "cust-1", domain.AccountTypeChecking, usd(t, 10000))

	require.NoError(t, account.Deposit(usd(t, 5000)))
	require.NoError(t, account.Withdraw(usd(t, 2000)))

	assert.Equal(t, int64(13000), account.Balance().Amount())

	pending := account.PendingEvents()
	require.Len(t, pending, 3)
	assert.Equal(t, domain.AccountCreatedName, pending[0].EventName)
	assert.Equal(t, domain.AccountDepositedName, pending[1].EventName)
	assert.Equal(t, domain.AccountWithdrawnName, pending[2].EventName)
}

func TestAccountOverdraftRejected(t *testing.T) {
	account := domain.NewAccount("acc-1", "cust-1", domain.AccountTypeChecking, usd(t, 10000))

	err := account.Withdraw(usd(t, 10001))

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(10000), account.Balance().Amount(), "failed command must not change state")
	assert.Len(t, account.PendingEvents(), 1, "failed command must not record events")
}

func TestAccountWithdrawExactBalance(t *testing.T) {
	account := domain.NewAccount("acc-1", "cust-1", domain.AccountTypeChecking, usd(t, 10000))

	require.NoError(t, account.Withdraw(usd(t, 10000)))

	assert.Equal(t, int64(0), account.Balance().Amount())
}

func TestAccountCurrencyMismatch(t *testing.T) {
	account := domain.NewAccount("acc-1", "cust-1", domain.AccountTypeChecking, usd(t, 10000))

	eur, err := money.FromMinorUnits(100, "EUR")
	require.NoError(t, err)

	assert.ErrorIs(t, account.Deposit(eur), money.ErrCurrencyMismatch)
	assert.ErrorIs(t, account.Withdraw(eur), money.ErrCurrencyMismatch)
	assert.Len(t, account.PendingEvents(), 1)
}

func TestAccountClose(t *testing.T) {
	account := domain.NewAccount("acc-1", "cust-1", domain.AccountTypeChecking, usd(t, 10000))

	require.NoError(t, account.Close("customer request"))

	assert.Equal(t, domain.AccountStatusClosed, account.Status())
	assert.Equal(t, int64(10000), account.Balance().Amount(), "closing does not zero the balance")

	t.Run("closed account refuses commands", func(t *testing.T) {
		assert.ErrorIs(t, account.Deposit(usd(t, 100)), domain.ErrAccountClosed)
		assert.ErrorIs(t, account.Withdraw(usd(t, 100)), domain.ErrAccountClosed)
		assert.ErrorIs(t, account.Close("again"), domain.ErrAccountAlreadyClosed)
	})
}

func TestAccountFromEvents(t *testing.T) {
	t.Run("rebuilds the account from its committed stream", func(t *testing.T) {
		original := domain.NewAccount("acc-1", "cust-1", domain.AccountTypeSavings, usd(t, 10000))
		require.NoError(t, original.Deposit(usd(t, 5000)))
		require.NoError(t, original.Withdraw(usd(t, 2000)))

		events := original.PendingEvents()
		for i := range events {
			events[i] = events[i].WithVersion(i)
		}

		replayed, err := domain.AccountFromEvents(events)

		require.NoError(t, err)
		assert.Equal(t, original.CustomerID(), replayed.CustomerID())
		assert.Equal(t, original.Type(), replayed.Type())
		assert.Equal(t, original.Balance(), replayed.Balance())
		assert.Equal(t, original.Status(), replayed.Status())
		assert.Equal(t, 2, replayed.CommittedVersion())
		assert.Empty(t, replayed.PendingEvents())
	})

	t.Run("rejects an empty stream", func(t *testing.T) {
		_, err := domain.AccountFromEvents(nil)

		assert.ErrorIs(t, err, aggregate.ErrEmptyEventStream)
	})
}
