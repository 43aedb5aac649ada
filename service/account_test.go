package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/domain"
	"github.com/meridianbank/ledgercore/money"
	"github.com/meridianbank/ledgercore/service"
)

func newAccountService(t *testing.T) (*service.AccountService, *serviceFixture) {
	t.Helper()

	store, bus := newStoreAndBus()
	accounts, err := service.NewAccountService(store, bus, testConfig(), nil)
	require.NoError(t, err)

	return accounts, &serviceFixture{store: store, bus: bus}
}

func TestNewAccountService(t *testing.T) {
	store, bus := newStoreAndBus()

	t.Run("requires a store", func(t *testing.T) {
		_, err := service.NewAccountService(nil, bus, testConfig(), nil)

		assert.Equal(t, ledgercore.InvalidArgumentError("store"), err)
	})

	t.Run("requires a bus", func(t *testing.T) {
		_, err := service.NewAccountService(store, nil, testConfig(), nil)

		assert.Equal(t, ledgercore.InvalidArgumentError("bus"), err)
	})
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a checking account and publishes the fact", func(t *testing.T) {
		accounts, fixture := newAccountService(t)
		recorder := recordEvents(t, fixture.bus, domain.AccountCreatedName)

		account, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeChecking, usd(t, 10000))

		require.NoError(t, err)
		assert.Equal(t, domain.AccountStatusOpen, account.Status())
		assert.Equal(t, int64(10000), account.Balance().Amount())
		assert.Empty(t, account.PendingEvents(), "committed events must be cleared")
		assert.Equal(t, 0, account.CommittedVersion())
		assert.Equal(t, 1, streamLength(t, fixture.store, account.AggregateID()))

		require.Len(t, recorder.events, 1)
		assert.Equal(t, 0, recorder.events[0].Version, "published events carry the assigned version")
	})

	t.Run("rejects gated account types", func(t *testing.T) {
		store, bus := newStoreAndBus()
		cfg := testConfig()
		cfg.Features.SavingsAccounts = false
		accounts, err := service.NewAccountService(store, bus, cfg, nil)
		require.NoError(t, err)

		_, err = accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeSavings, usd(t, 10000))

		assert.ErrorIs(t, err, service.ErrAccountTypeDisabled)
	})

	t.Run("rejects unknown account types", func(t *testing.T) {
		accounts, _ := newAccountService(t)

		_, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountType("premium"), usd(t, 10000))

		assert.Equal(t, ledgercore.InvalidArgumentError("accountType"), err)
	})

	t.Run("rejects balances below the minimum", func(t *testing.T) {
		accounts, _ := newAccountService(t)

		_, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeChecking, usd(t, 4999))

		assert.ErrorIs(t, err, service.ErrBelowMinimumBalance)
	})

	t.Run("rejects foreign currencies", func(t *testing.T) {
		accounts, _ := newAccountService(t)

		eur, err := money.FromMinorUnits(10000, "EUR")
		require.NoError(t, err)

		_, err = accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeChecking, eur)

		assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
	})

	t.Run("bitcoin collateral accounts request a custody wallet", func(t *testing.T) {
		accounts, fixture := newAccountService(t)
		recorder := recordEvents(t, fixture.bus, domain.BitcoinWalletRequiredName)

		account, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeBitcoinCollateral, usd(t, 10000))

		require.NoError(t, err)
		require.Len(t, recorder.events, 1)
		payload, ok := recorder.events[0].Payload.(*domain.BitcoinWalletRequired)
		require.True(t, ok)
		assert.Equal(t, account.AggregateID(), payload.AccountID)
		assert.Equal(t, "cust-1", payload.CustomerID)

		assert.Equal(t, 1, streamLength(t, fixture.store, account.AggregateID()),
			"the wallet request is bus-only and never enters the stream")
	})
}

func TestAccountServiceDepositAndWithdraw(t *testing.T) {
	ctx := context.Background()
	accounts, fixture := newAccountService(t)

	created, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeChecking, usd(t, 10000))
	require.NoError(t, err)
	accountID := created.AggregateID()

	t.Run("deposit", func(t *testing.T) {
		account, err := accounts.Deposit(ctx, accountID, usd(t, 5000))

		require.NoError(t, err)
		assert.Equal(t, int64(15000), account.Balance().Amount())
		assert.Equal(t, 1, account.CommittedVersion())
	})

	t.Run("withdraw", func(t *testing.T) {
		account, err := accounts.Withdraw(ctx, accountID, usd(t, 2000))

		require.NoError(t, err)
		assert.Equal(t, int64(13000), account.Balance().Amount())
		assert.Equal(t, 2, account.CommittedVersion())
	})

	t.Run("withdrawal above the configured ceiling", func(t *testing.T) {
		_, err := accounts.Withdraw(ctx, accountID, usd(t, 60000))

		assert.ErrorIs(t, err, service.ErrWithdrawalLimitExceeded)
		assert.Equal(t, 3, streamLength(t, fixture.store, accountID))
	})

	t.Run("overdraft", func(t *testing.T) {
		_, err := accounts.Withdraw(ctx, accountID, usd(t, 13001))

		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, 3, streamLength(t, fixture.store, accountID))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := accounts.Deposit(ctx, "missing", usd(t, 100))

		assert.ErrorIs(t, err, ledgercore.ErrAggregateNotFound)
	})
}

func TestAccountServiceClose(t *testing.T) {
	ctx := context.Background()
	accounts, _ := newAccountService(t)

	created, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeChecking, usd(t, 10000))
	require.NoError(t, err)

	closed, err := accounts.CloseAccount(ctx, created.AggregateID(), "customer request")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusClosed, closed.Status())

	_, err = accounts.Deposit(ctx, created.AggregateID(), usd(t, 100))
	assert.ErrorIs(t, err, domain.ErrAccountClosed)
}

func TestFindAccountsByCustomer(t *testing.T) {
	ctx := context.Background()
	accounts, _ := newAccountService(t)

	first, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeChecking, usd(t, 10000))
	require.NoError(t, err)
	second, err := accounts.CreateAccount(ctx, "cust-1", domain.AccountTypeSavings, usd(t, 20000))
	require.NoError(t, err)
	_, err = accounts.CreateAccount(ctx, "cust-2", domain.AccountTypeChecking, usd(t, 30000))
	require.NoError(t, err)

	found, err := accounts.FindAccountsByCustomer(ctx, "cust-1")

	require.NoError(t, err)
	foundIDs := make([]string, 0, len(found))
	for _, account := range found {
		foundIDs = append(foundIDs, account.AggregateID())
	}
	assert.ElementsMatch(t, []string{first.AggregateID(), second.AggregateID()}, foundIDs)
}
