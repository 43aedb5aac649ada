package domain

import (
	"errors"
	"fmt"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/aggregate"
	"github.com/meridianbank/ledgercore/money"
)

// TransactionType is the kind of money movement a transaction records
type TransactionType string

const (
	// TransactionTypeDeposit money entering an account from outside
	TransactionTypeDeposit TransactionType = "deposit"
	// TransactionTypeWithdrawal money leaving an account to outside
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	// TransactionTypeTransfer money moving between two accounts
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus is the lifecycle state of a transaction
type TransactionStatus string

const (
	// TransactionStatusPending the transaction has not settled yet
	TransactionStatusPending TransactionStatus = "pending"
	// TransactionStatusCompleted terminal, the transaction settled
	TransactionStatusCompleted TransactionStatus = "completed"
	// TransactionStatusFailed terminal, the transaction failed
	TransactionStatusFailed TransactionStatus = "failed"
)

var (
	// ErrInvalidTransactionState occurs when completing or failing a transaction that is no longer pending
	ErrInvalidTransactionState = errors.New("transaction is not pending")

	// Ensure Transaction implements the aggregate.Root interface
	_ aggregate.Root = &Transaction{}
)

// Transaction is an event-sourced record of a money movement
type Transaction struct {
	aggregate.BaseRoot

	fromAccountID   string
	toAccountID     string
	amount          money.Money
	transactionType TransactionType
	status          TransactionStatus
	failureReason   string
}

// NewTransaction initiates a pending transaction
func NewTransaction(id, fromAccountID, toAccountID string, amount money.Money, transactionType TransactionType) *Transaction {
	transaction := &Transaction{BaseRoot: aggregate.NewBaseRoot(id)}

	aggregate.RecordThat(transaction, TransactionCreatedName, &TransactionCreated{
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		Type:          transactionType,
	})

	return transaction
}

// TransactionFromEvents reconstitutes a Transaction from its committed event stream
func TransactionFromEvents(events []ledgercore.DomainEvent) (*Transaction, error) {
	transaction := &Transaction{}
	if err := aggregate.Replay(transaction, events); err != nil {
		return nil, err
	}

	return transaction, nil
}

// FromAccountID returns the debited account id, empty for deposits
func (t *Transaction) FromAccountID() string {
	return t.fromAccountID
}

// ToAccountID returns the credited account id, empty for withdrawals
func (t *Transaction) ToAccountID() string {
	return t.toAccountID
}

// Amount returns the transaction amount
func (t *Transaction) Amount() money.Money {
	return t.amount
}

// Type returns the transaction type
func (t *Transaction) Type() TransactionType {
	return t.transactionType
}

// Status returns the lifecycle state
func (t *Transaction) Status() TransactionStatus {
	return t.status
}

// FailureReason returns why the transaction failed, empty unless failed
func (t *Transaction) FailureReason() string {
	return t.failureReason
}

// Complete settles the transaction
func (t *Transaction) Complete() error {
	if t.status != TransactionStatusPending {
		return fmt.Errorf("%w: cannot complete a transaction that is already %s", ErrInvalidTransactionState, t.status)
	}

	aggregate.RecordThat(t, TransactionCompletedName, &TransactionCompleted{})

	return nil
}

// Fail marks the transaction as failed with the given reason
func (t *Transaction) Fail(reason string) error {
	if t.status != TransactionStatusPending {
		return fmt.Errorf("%w: cannot fail a transaction that is already %s", ErrInvalidTransactionState, t.status)
	}

	aggregate.RecordThat(t, TransactionFailedName, &TransactionFailed{Reason: reason})

	return nil
}

// Apply changes the state of the Transaction
func (t *Transaction) Apply(event ledgercore.DomainEvent) {
	switch payload := event.Payload.(type) {
	case *TransactionCreated:
		t.fromAccountID = payload.FromAccountID
		t.toAccountID = payload.ToAccountID
		t.amount = payload.Amount
		t.transactionType = payload.Type
		t.status = TransactionStatusPending
	case *TransactionCompleted:
		t.status = TransactionStatusCompleted
	case *TransactionFailed:
		t.status = TransactionStatusFailed
		t.failureReason = payload.Reason
	}
}
