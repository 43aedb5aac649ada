package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/config"
	"github.com/meridianbank/ledgercore/domain"
	"github.com/meridianbank/ledgercore/money"
)

// AccountService opens and operates bank accounts
type AccountService struct {
	store  ledgercore.EventStore
	bus    ledgercore.EventBus
	cfg    config.Config
	logger ledgercore.Logger
}

// NewAccountService returns a new AccountService
func NewAccountService(store ledgercore.EventStore, bus ledgercore.EventBus, cfg config.Config, logger ledgercore.Logger) (*AccountService, error) {
	switch {
	case store == nil:
		return nil, ledgercore.InvalidArgumentError("store")
	case bus == nil:
		return nil, ledgercore.InvalidArgumentError("bus")
	}
	if logger == nil {
		logger = ledgercore.NopLogger
	}

	return &AccountService{
		store:  store,
		bus:    bus,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// CreateAccount opens an account for a customer. Savings and
// bitcoin-collateral accounts are feature gated, and the opening balance
// must meet the configured minimum in the bank currency.
func (s *AccountService) CreateAccount(
	ctx context.Context,
	customerID string,
	accountType domain.AccountType,
	initialBalance money.Money,
) (*domain.Account, error) {
	switch accountType {
	case domain.AccountTypeChecking:
	case domain.AccountTypeSavings:
		if !s.cfg.Features.SavingsAccounts {
			return nil, fmt.Errorf("%w: %s", ErrAccountTypeDisabled, accountType)
		}
	case domain.AccountTypeBitcoinCollateral:
		if !s.cfg.Features.BitcoinCollateral {
			return nil, fmt.Errorf("%w: %s", ErrAccountTypeDisabled, accountType)
		}
	default:
		return nil, ledgercore.InvalidArgumentError("accountType")
	}

	if initialBalance.Currency() != s.cfg.Bank.Currency {
		return nil, fmt.Errorf(
			"%w: accounts are denominated in %s",
			money.ErrCurrencyMismatch,
			s.cfg.Bank.Currency,
		)
	}

	minimum, err := money.New(decimal.NewFromFloat(s.cfg.Limits.MinimumAccountBalance), s.cfg.Bank.Currency)
	if err != nil {
		return nil, err
	}
	if initialBalance.Amount() < minimum.Amount() {
		return nil, fmt.Errorf("%w: minimum is %s", ErrBelowMinimumBalance, minimum)
	}

	account := domain.NewAccount(uuid.NewString(), customerID, accountType, initialBalance)
	if err := saveAndPublish(ctx, s.store, s.bus, account); err != nil {
		return nil, err
	}

	s.logger.WithFields(ledgercore.Fields{
		"account_id":  account.AggregateID(),
		"customer_id": customerID,
		"type":        accountType,
	}).Info("account created")

	if accountType == domain.AccountTypeBitcoinCollateral {
		// Bus-only companion event for the custody subscriber; it is never
		// part of the account's stream. The account exists either way, so a
		// publish failure is logged rather than returned.
		event := ledgercore.NewDomainEvent(account.AggregateID(), domain.BitcoinWalletRequiredName, &domain.BitcoinWalletRequired{
			AccountID:  account.AggregateID(),
			CustomerID: customerID,
		})
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.WithError(err).
				WithField("account_id", account.AggregateID()).
				Error("failed to request bitcoin wallet provisioning")
		}
	}

	return account, nil
}

// GetAccount loads an account by id
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	events, err := s.store.ReadStream(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ledgercore.ErrAggregateNotFound
	}

	return domain.AccountFromEvents(events)
}

// FindAccountsByCustomer returns every account owned by the customer
func (s *AccountService) FindAccountsByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error) {
	ids, err := s.store.LookupAggregateIDs(ctx, domain.AccountCreatedName, "customerId", customerID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		account, err := s.GetAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

// Deposit adds funds to an account
func (s *AccountService) Deposit(ctx context.Context, accountID string, amount money.Money) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.Deposit(amount); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Withdraw removes funds from an account, enforcing the per-account-type
// withdrawal ceiling from the configuration
func (s *AccountService) Withdraw(ctx context.Context, accountID string, amount money.Money) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.checkWithdrawalLimit(account.Type(), amount); err != nil {
		return nil, err
	}
	if err := account.Withdraw(amount); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, account); err != nil {
		return nil, err
	}

	return account, nil
}

// CloseAccount closes an account
func (s *AccountService) CloseAccount(ctx context.Context, accountID, reason string) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.Close(reason); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) checkWithdrawalLimit(accountType domain.AccountType, amount money.Money) error {
	return checkWithdrawalLimit(s.cfg.Limits, accountType, amount)
}

// checkWithdrawalLimit compares an amount against the configured ceiling for
// the account type. A zero ceiling means no limit applies.
func checkWithdrawalLimit(limits config.Limits, accountType domain.AccountType, amount money.Money) error {
	limit, ok := limits.WithdrawalLimit(string(accountType))
	if !ok || limit == 0 {
		return nil
	}

	ceiling, err := money.New(decimal.NewFromFloat(limit), amount.Currency())
	if err != nil {
		return err
	}
	if amount.Amount() > ceiling.Amount() {
		return fmt.Errorf("%w: limit for %s accounts is %s", ErrWithdrawalLimitExceeded, accountType, ceiling)
	}

	return nil
}
