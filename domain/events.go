// Package domain contains the Account, Customer and Transaction aggregates.
//
// Each aggregate is a state machine whose derived state is reconstructed
// purely by replaying its own event stream. Command methods validate the
// current state against their preconditions and, when valid, record a new
// event; a failed command records nothing and mutates nothing.
package domain

import "github.com/meridianbank/ledgercore"

// RegisterPayloads registers every domain event payload with the registry
func RegisterPayloads(registry *ledgercore.PayloadRegistry) error {
	payloads := map[string]interface{}{
		AccountCreatedName:                 AccountCreated{},
		AccountDepositedName:               AccountDeposited{},
		AccountWithdrawnName:               AccountWithdrawn{},
		AccountClosedName:                  AccountClosed{},
		BitcoinWalletRequiredName:          BitcoinWalletRequired{},
		CustomerCreatedName:                CustomerCreated{},
		CustomerVerifiedName:               CustomerVerified{},
		CustomerRejectedName:               CustomerRejected{},
		CustomerRiskLevelUpdatedName:       CustomerRiskLevelUpdated{},
		CustomerFlaggedForManualReviewName: CustomerFlaggedForManualReview{},
		TransactionCreatedName:             TransactionCreated{},
		TransactionCompletedName:           TransactionCompleted{},
		TransactionFailedName:              TransactionFailed{},
	}

	for eventName, payload := range payloads {
		if err := registry.RegisterPayload(eventName, payload); err != nil {
			return err
		}
	}

	return nil
}

// EventNames returns every domain event name, for subscribers interested in
// the full stream
func EventNames() []string {
	return []string{
		AccountCreatedName,
		AccountDepositedName,
		AccountWithdrawnName,
		AccountClosedName,
		BitcoinWalletRequiredName,
		CustomerCreatedName,
		CustomerVerifiedName,
		CustomerRejectedName,
		CustomerRiskLevelUpdatedName,
		CustomerFlaggedForManualReviewName,
		TransactionCreatedName,
		TransactionCompletedName,
		TransactionFailedName,
	}
}
