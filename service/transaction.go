package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/config"
	"github.com/meridianbank/ledgercore/domain"
	"github.com/meridianbank/ledgercore/money"
	"github.com/meridianbank/ledgercore/provider"
)

// TransactionService records money movements as Transaction aggregates and
// applies them to the involved accounts
type TransactionService struct {
	store  ledgercore.EventStore
	bus    ledgercore.EventBus
	fraud  provider.Fraud
	cfg    config.Config
	logger ledgercore.Logger
}

// NewTransactionService returns a new TransactionService. The fraud provider
// may be nil when the integration is disabled; transactions then skip the
// fraud check.
func NewTransactionService(
	store ledgercore.EventStore,
	bus ledgercore.EventBus,
	fraud provider.Fraud,
	cfg config.Config,
	logger ledgercore.Logger,
) (*TransactionService, error) {
	switch {
	case store == nil:
		return nil, ledgercore.InvalidArgumentError("store")
	case bus == nil:
		return nil, ledgercore.InvalidArgumentError("bus")
	}
	if logger == nil {
		logger = ledgercore.NopLogger
	}

	return &TransactionService{
		store:  store,
		bus:    bus,
		fraud:  fraud,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Transfer moves funds between two accounts. A command validation failure on
// either account records a failed transaction carrying the reason and the
// original error is returned; neither account is modified in that case.
func (s *TransactionService) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount money.Money) (*domain.Transaction, error) {
	transaction := domain.NewTransaction(uuid.NewString(), fromAccountID, toAccountID, amount, domain.TransactionTypeTransfer)

	if err := s.checkFraud(ctx, transaction); err != nil {
		return nil, err
	}

	from, err := s.loadAccount(ctx, fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.loadAccount(ctx, toAccountID)
	if err != nil {
		return nil, err
	}

	if err := checkWithdrawalLimit(s.cfg.Limits, from.Type(), amount); err != nil {
		return nil, s.failTransaction(ctx, transaction, err)
	}
	if err := from.Withdraw(amount); err != nil {
		return nil, s.failTransaction(ctx, transaction, err)
	}
	if err := to.Deposit(amount); err != nil {
		return nil, s.failTransaction(ctx, transaction, err)
	}
	if err := transaction.Complete(); err != nil {
		return nil, err
	}

	// Each aggregate is its own stream; the three appends are not atomic
	// with each other.
	if err := saveAndPublish(ctx, s.store, s.bus, from); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, to); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, transaction); err != nil {
		return nil, err
	}

	s.logger.WithFields(ledgercore.Fields{
		"transaction_id":  transaction.AggregateID(),
		"from_account_id": fromAccountID,
		"to_account_id":   toAccountID,
		"amount":          amount.String(),
	}).Info("transfer completed")

	return transaction, nil
}

// Deposit records a deposit from outside the bank into an account
func (s *TransactionService) Deposit(ctx context.Context, accountID string, amount money.Money) (*domain.Transaction, error) {
	transaction := domain.NewTransaction(uuid.NewString(), "", accountID, amount, domain.TransactionTypeDeposit)

	if err := s.checkFraud(ctx, transaction); err != nil {
		return nil, err
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.Deposit(amount); err != nil {
		return nil, s.failTransaction(ctx, transaction, err)
	}
	if err := transaction.Complete(); err != nil {
		return nil, err
	}

	if err := saveAndPublish(ctx, s.store, s.bus, account); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

// Withdrawal records a withdrawal from an account to outside the bank,
// enforcing the per-account-type withdrawal ceiling
func (s *TransactionService) Withdrawal(ctx context.Context, accountID string, amount money.Money) (*domain.Transaction, error) {
	transaction := domain.NewTransaction(uuid.NewString(), accountID, "", amount, domain.TransactionTypeWithdrawal)

	if err := s.checkFraud(ctx, transaction); err != nil {
		return nil, err
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := checkWithdrawalLimit(s.cfg.Limits, account.Type(), amount); err != nil {
		return nil, s.failTransaction(ctx, transaction, err)
	}
	if err := account.Withdraw(amount); err != nil {
		return nil, s.failTransaction(ctx, transaction, err)
	}
	if err := transaction.Complete(); err != nil {
		return nil, err
	}

	if err := saveAndPublish(ctx, s.store, s.bus, account); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetTransaction loads a transaction by id
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	events, err := s.store.ReadStream(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ledgercore.ErrAggregateNotFound
	}

	return domain.TransactionFromEvents(events)
}

func (s *TransactionService) loadAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	events, err := s.store.ReadStream(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ledgercore.ErrAggregateNotFound
	}

	return domain.AccountFromEvents(events)
}

// checkFraud scores the transaction when real-time fraud detection is
// enabled and a provider is configured. A declined score records the failed
// transaction and returns ErrTransactionDeclined.
func (s *TransactionService) checkFraud(ctx context.Context, transaction *domain.Transaction) error {
	if !s.cfg.Features.RealTimeFraudDetection || s.fraud == nil {
		return nil
	}

	result, err := s.fraud.CheckTransaction(ctx, map[string]interface{}{
		"transactionId": transaction.AggregateID(),
		"fromAccountId": transaction.FromAccountID(),
		"toAccountId":   transaction.ToAccountID(),
		"amount":        transaction.Amount().Amount(),
		"currency":      transaction.Amount().Currency(),
		"type":          string(transaction.Type()),
	})
	if err != nil {
		return fmt.Errorf("fraud check: %w", err)
	}

	if result.Status != provider.VerificationApproved {
		declined := fmt.Errorf("%w: score %d", ErrTransactionDeclined, result.Score)
		return s.failTransaction(ctx, transaction, declined)
	}

	return nil
}

// failTransaction records the failure reason on the transaction, persists
// and publishes only the transaction's events and hands back the original
// error. The accounts involved keep their committed state. When recording
// the failure itself fails, that error is joined onto the cause so the
// caller knows the compensating fact was lost.
func (s *TransactionService) failTransaction(ctx context.Context, transaction *domain.Transaction, cause error) error {
	if err := transaction.Fail(cause.Error()); err != nil {
		return err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, transaction); err != nil {
		s.logger.WithError(err).
			WithField("transaction_id", transaction.AggregateID()).
			Error("failed to record failed transaction")

		return errors.Join(cause, fmt.Errorf("record failed transaction: %w", err))
	}

	return cause
}
