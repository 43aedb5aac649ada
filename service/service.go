// Package service orchestrates the event-sourced aggregates: it loads an
// aggregate from its committed stream, executes a command, appends the
// pending events with the committed version as the concurrency checkpoint
// and publishes the committed events on the bus.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/aggregate"
	"github.com/meridianbank/ledgercore/provider"
)

var (
	// ErrAccountTypeDisabled occurs when opening an account of a type that is feature-gated off
	ErrAccountTypeDisabled = errors.New("account type is not enabled")
	// ErrBelowMinimumBalance occurs when an opening balance is under the configured minimum
	ErrBelowMinimumBalance = errors.New("initial balance is below the minimum account balance")
	// ErrWithdrawalLimitExceeded occurs when a withdrawal exceeds the per-account-type ceiling
	ErrWithdrawalLimitExceeded = errors.New("amount exceeds the withdrawal limit")
	// ErrDuplicateEmail occurs when registering a customer with an email that is already taken
	ErrDuplicateEmail = errors.New("a customer with this email already exists")
	// ErrRiskLevelBlocked occurs when a risk level update reaches the block threshold
	ErrRiskLevelBlocked = errors.New("risk level is at or above the block threshold")
	// ErrTransactionDeclined occurs when the fraud provider declines a transaction
	ErrTransactionDeclined = errors.New("transaction declined by fraud check")
)

// VerificationFailedError occurs when the identity verification provider does
// not approve a customer
type VerificationFailedError struct {
	CustomerID string
	Status     provider.VerificationStatus
}

// Error an error message
func (e *VerificationFailedError) Error() string {
	return fmt.Sprintf("identity verification for customer %s returned %q", e.CustomerID, e.Status)
}

// saveAndPublish appends the aggregate's pending events using its committed
// version as the optimistic concurrency checkpoint, then publishes the now
// committed events. The append and the publish are not atomic: a crash
// between them loses the publication, so the store remains the source of
// truth and consumers needing certainty must read it.
func saveAndPublish(ctx context.Context, store ledgercore.EventStore, bus ledgercore.EventBus, root aggregate.Root) error {
	events := root.PendingEvents()
	if len(events) == 0 {
		return nil
	}

	if err := store.AppendToStream(ctx, root.AggregateID(), events, root.CommittedVersion()); err != nil {
		return err
	}

	// Stamp the versions the store just assigned so subscribers see the
	// committed facts.
	version := root.CommittedVersion()
	for i := range events {
		version++
		events[i] = events[i].WithVersion(version)
	}

	for _, event := range events {
		if err := bus.Publish(ctx, event); err != nil {
			return fmt.Errorf("publish %s: %w", event.EventName, err)
		}
	}

	root.ClearPendingEvents()

	return nil
}
