package domain

import (
	"errors"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/aggregate"
	"github.com/meridianbank/ledgercore/money"
)

// AccountType is the product type of an account
type AccountType string

const (
	// AccountTypeChecking a current account
	AccountTypeChecking AccountType = "checking"
	// AccountTypeSavings a savings account
	AccountTypeSavings AccountType = "savings"
	// AccountTypeBitcoinCollateral an account whose balance collateralizes a bitcoin position
	AccountTypeBitcoinCollateral AccountType = "bitcoin-collateral"
)

// AccountStatus is the lifecycle state of an account
type AccountStatus string

const (
	// AccountStatusOpen the account accepts deposits and withdrawals
	AccountStatusOpen AccountStatus = "open"
	// AccountStatusClosed terminal state, the account refuses all commands
	AccountStatusClosed AccountStatus = "closed"
)

var (
	// ErrAccountClosed occurs when a deposit or withdrawal hits a closed account
	ErrAccountClosed = errors.New("account is closed")
	// ErrAccountAlreadyClosed occurs when close is called on a closed account
	ErrAccountAlreadyClosed = errors.New("account is already closed")
	// ErrInsufficientFunds occurs when a withdrawal exceeds the account balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Ensure Account implements the aggregate.Root interface
	_ aggregate.Root = &Account{}
)

// Account is an event-sourced bank account
type Account struct {
	aggregate.BaseRoot

	customerID  string
	accountType AccountType
	balance     money.Money
	status      AccountStatus
}

// NewAccount opens a new account with the given initial balance. There is no
// minimum-balance check at this layer; that policy belongs to the
// orchestrating service.
func NewAccount(id, customerID string, accountType AccountType, initialBalance money.Money) *Account {
	account := &Account{BaseRoot: aggregate.NewBaseRoot(id)}

	aggregate.RecordThat(account, AccountCreatedName, &AccountCreated{
		CustomerID:     customerID,
		Type:           accountType,
		InitialBalance: initialBalance,
	})

	return account
}

// AccountFromEvents reconstitutes an Account from its committed event stream
func AccountFromEvents(events []ledgercore.DomainEvent) (*Account, error) {
	account := &Account{}
	if err := aggregate.Replay(account, events); err != nil {
		return nil, err
	}

	return account, nil
}

// CustomerID returns the id of the owning customer
func (a *Account) CustomerID() string {
	return a.customerID
}

// Type returns the account type
func (a *Account) Type() AccountType {
	return a.accountType
}

// Balance returns the current balance
func (a *Account) Balance() money.Money {
	return a.balance
}

// Status returns the lifecycle state
func (a *Account) Status() AccountStatus {
	return a.status
}

// Deposit adds an amount of money to the account
func (a *Account) Deposit(amount money.Money) error {
	if a.status == AccountStatusClosed {
		return ErrAccountClosed
	}
	if _, err := a.balance.Add(amount); err != nil {
		return err
	}

	aggregate.RecordThat(a, AccountDepositedName, &AccountDeposited{Amount: amount})

	return nil
}

// Withdraw removes an amount of money from the account
func (a *Account) Withdraw(amount money.Money) error {
	if a.status == AccountStatusClosed {
		return ErrAccountClosed
	}
	if _, err := a.balance.Subtract(amount); err != nil {
		return err
	}
	if a.balance.Amount() < amount.Amount() {
		return ErrInsufficientFunds
	}

	aggregate.RecordThat(a, AccountWithdrawnName, &AccountWithdrawn{Amount: amount})

	return nil
}

// Close closes the account. Closing does not zero the balance.
func (a *Account) Close(reason string) error {
	if a.status == AccountStatusClosed {
		return ErrAccountAlreadyClosed
	}

	aggregate.RecordThat(a, AccountClosedName, &AccountClosed{Reason: reason})

	return nil
}

// Apply changes the state of the Account. Committed deposit and withdrawal
// facts are same-currency by construction, so the arithmetic errors are
// unreachable during replay.
func (a *Account) Apply(event ledgercore.DomainEvent) {
	switch payload := event.Payload.(type) {
	case *AccountCreated:
		a.customerID = payload.CustomerID
		a.accountType = payload.Type
		a.balance = payload.InitialBalance
		a.status = AccountStatusOpen
	case *AccountDeposited:
		a.balance, _ = a.balance.Add(payload.Amount)
	case *AccountWithdrawn:
		a.balance, _ = a.balance.Subtract(payload.Amount)
	case *AccountClosed:
		a.status = AccountStatusClosed
	}
}
