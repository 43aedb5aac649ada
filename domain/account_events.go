package domain

import "github.com/meridianbank/ledgercore/money"

const (
	// AccountCreatedName is the event name for AccountCreated
	AccountCreatedName = "account.created"
	// AccountDepositedName is the event name for AccountDeposited
	AccountDepositedName = "account.deposited"
	// AccountWithdrawnName is the event name for AccountWithdrawn
	AccountWithdrawnName = "account.withdrawn"
	// AccountClosedName is the event name for AccountClosed
	AccountClosedName = "account.closed"
	// BitcoinWalletRequiredName is the event name for BitcoinWalletRequired
	BitcoinWalletRequiredName = "account.bitcoin_wallet.required"
)

type (
	// AccountCreated a DomainEvent indicating that an account was opened
	AccountCreated struct {
		CustomerID     string      `json:"customerId"`
		Type           AccountType `json:"type"`
		InitialBalance money.Money `json:"initialBalance"`
	}

	// AccountDeposited a DomainEvent indicating that funds were deposited
	AccountDeposited struct {
		Amount money.Money `json:"amount"`
	}

	// AccountWithdrawn a DomainEvent indicating that funds were withdrawn
	AccountWithdrawn struct {
		Amount money.Money `json:"amount"`
	}

	// AccountClosed a DomainEvent indicating that an account was closed
	AccountClosed struct {
		Reason string `json:"reason"`
	}

	// BitcoinWalletRequired a DomainEvent published for the custody service
	// when a bitcoin-collateral account is opened. It is bus-only and never
	// appended to the account's stream.
	BitcoinWalletRequired struct {
		AccountID  string `json:"accountId"`
		CustomerID string `json:"customerId"`
	}
)
