// Package provider defines the capability interfaces for the external
// integrations consumed by the services (identity verification, custody,
// fraud scoring, payment rails) and a registry of mock implementations
// selected by configuration key.
//
// A disabled integration resolves to a nil provider; services must handle the
// absence by skipping the corresponding check.
package provider

import "context"

// VerificationStatus is the outcome of an identity verification
type VerificationStatus string

const (
	// VerificationApproved the identity was verified
	VerificationApproved VerificationStatus = "approved"
	// VerificationRejected the identity verification failed
	VerificationRejected VerificationStatus = "rejected"
	// VerificationPending the verification has not concluded yet
	VerificationPending VerificationStatus = "pending"
)

type (
	// KYCResult is the outcome of an identity verification request
	KYCResult struct {
		Status         VerificationStatus
		VerificationID string
	}

	// KYC verifies a customer's identity documents
	KYC interface {
		VerifyIdentity(ctx context.Context, customerID string, documents map[string]string) (KYCResult, error)
	}

	// Wallet is a custody wallet reference
	Wallet struct {
		WalletID string
	}

	// Custody manages external asset custody wallets
	Custody interface {
		CreateWallet(ctx context.Context, name string) (Wallet, error)
		GetDepositAddress(ctx context.Context, walletID string) (string, error)
		InitiateWithdrawal(ctx context.Context, walletID, address, amount string) (string, error)
	}

	// FraudResult is the outcome of a fraud check
	FraudResult struct {
		Score  int
		Status VerificationStatus
	}

	// Fraud scores a transaction for fraud risk
	Fraud interface {
		CheckTransaction(ctx context.Context, payload map[string]interface{}) (FraudResult, error)
	}

	// PaymentIntent is a created payment intent on the external rail
	PaymentIntent struct {
		ID           string
		ClientSecret string
		Status       string
	}

	// Payments creates payment intents and verifies webhook signatures
	Payments interface {
		CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency string) (PaymentIntent, error)
		VerifyWebhookSignature(payload, signature string) bool
	}
)
