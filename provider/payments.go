package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianbank/ledgercore"
)

type stripePayments struct {
	logger ledgercore.Logger
}

// NewStripePayments returns the Stripe payments mock
func NewStripePayments(logger ledgercore.Logger) Payments {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("stripe payments provider initialized")
	return &stripePayments{logger: logger}
}

func (p *stripePayments) CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency string) (PaymentIntent, error) {
	id := fmt.Sprintf("pi_%s", uuid.NewString())
	p.logger.WithFields(ledgercore.Fields{
		"amount_minor_units": amountMinorUnits,
		"currency":           currency,
	}).Info("stripe: creating payment intent")

	return PaymentIntent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.NewString()),
		Status:       "requires_payment_method",
	}, nil
}

func (p *stripePayments) VerifyWebhookSignature(payload, signature string) bool {
	// Sandbox mode accepts every signature.
	return true
}

type plaidPayments struct {
	logger ledgercore.Logger
}

// NewPlaidPayments returns the Plaid payments mock
func NewPlaidPayments(logger ledgercore.Logger) Payments {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("plaid payments provider initialized")
	return &plaidPayments{logger: logger}
}

func (p *plaidPayments) CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency string) (PaymentIntent, error) {
	p.logger.WithFields(ledgercore.Fields{
		"amount_minor_units": amountMinorUnits,
		"currency":           currency,
	}).Info("plaid: creating payment intent")

	return PaymentIntent{
		ID:           fmt.Sprintf("plaid-transfer-%s", uuid.NewString()),
		ClientSecret: "",
		Status:       "pending",
	}, nil
}

func (p *plaidPayments) VerifyWebhookSignature(payload, signature string) bool {
	return true
}
