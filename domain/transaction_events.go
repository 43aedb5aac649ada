package domain

import "github.com/meridianbank/ledgercore/money"

const (
	// TransactionCreatedName is the event name for TransactionCreated
	TransactionCreatedName = "transaction.created"
	// TransactionCompletedName is the event name for TransactionCompleted
	TransactionCompletedName = "transaction.completed"
	// TransactionFailedName is the event name for TransactionFailed
	TransactionFailedName = "transaction.failed"
)

type (
	// TransactionCreated a DomainEvent indicating that a transaction was
	// initiated. FromAccountID is empty for deposits and ToAccountID is empty
	// for withdrawals; transfers carry both.
	TransactionCreated struct {
		FromAccountID string          `json:"fromAccountId"`
		ToAccountID   string          `json:"toAccountId"`
		Amount        money.Money     `json:"amount"`
		Type          TransactionType `json:"type"`
	}

	// TransactionCompleted a DomainEvent indicating that a transaction settled
	TransactionCompleted struct {
	}

	// TransactionFailed a DomainEvent indicating that a transaction failed
	TransactionFailed struct {
		Reason string `json:"reason"`
	}
)
