package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianbank/ledgercore"
)

// The KYC providers below are sandbox mocks: they log the request and return
// an approved verification with a provider-shaped reference id.

type jumioKYC struct {
	logger ledgercore.Logger
}

// NewJumioKYC returns the Jumio identity verification mock
func NewJumioKYC(logger ledgercore.Logger) KYC {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("jumio kyc provider initialized")
	return &jumioKYC{logger: logger}
}

func (p *jumioKYC) VerifyIdentity(ctx context.Context, customerID string, documents map[string]string) (KYCResult, error) {
	p.logger.WithField("customer_id", customerID).Info("jumio: verifying identity")

	return KYCResult{
		Status:         VerificationApproved,
		VerificationID: fmt.Sprintf("jumio-verification-%s", uuid.NewString()),
	}, nil
}

type onfidoKYC struct {
	logger ledgercore.Logger
}

// NewOnfidoKYC returns the Onfido identity verification mock
func NewOnfidoKYC(logger ledgercore.Logger) KYC {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("onfido kyc provider initialized")
	return &onfidoKYC{logger: logger}
}

func (p *onfidoKYC) VerifyIdentity(ctx context.Context, customerID string, documents map[string]string) (KYCResult, error) {
	p.logger.WithField("customer_id", customerID).Info("onfido: verifying identity")

	return KYCResult{
		Status:         VerificationApproved,
		VerificationID: fmt.Sprintf("onfido-check-%s", uuid.NewString()),
	}, nil
}

type personaKYC struct {
	logger ledgercore.Logger
}

// NewPersonaKYC returns the Persona identity verification mock
func NewPersonaKYC(logger ledgercore.Logger) KYC {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("persona kyc provider initialized")
	return &personaKYC{logger: logger}
}

func (p *personaKYC) VerifyIdentity(ctx context.Context, customerID string, documents map[string]string) (KYCResult, error) {
	p.logger.WithField("customer_id", customerID).Info("persona: verifying identity")

	return KYCResult{
		Status:         VerificationApproved,
		VerificationID: fmt.Sprintf("persona-inquiry-%s", uuid.NewString()),
	}, nil
}
