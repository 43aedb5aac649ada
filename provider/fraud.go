package provider

import (
	"context"

	"github.com/meridianbank/ledgercore"
)

// The fraud providers below are sandbox mocks approving every transaction
// with a mid-range score.

type siftFraud struct {
	logger ledgercore.Logger
}

// NewSiftFraud returns the Sift fraud scoring mock
func NewSiftFraud(logger ledgercore.Logger) Fraud {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("sift fraud provider initialized")
	return &siftFraud{logger: logger}
}

func (p *siftFraud) CheckTransaction(ctx context.Context, payload map[string]interface{}) (FraudResult, error) {
	p.logger.Info("sift: checking transaction")

	return FraudResult{Score: 50, Status: VerificationApproved}, nil
}

type kountFraud struct {
	logger ledgercore.Logger
}

// NewKountFraud returns the Kount fraud scoring mock
func NewKountFraud(logger ledgercore.Logger) Fraud {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("kount fraud provider initialized")
	return &kountFraud{logger: logger}
}

func (p *kountFraud) CheckTransaction(ctx context.Context, payload map[string]interface{}) (FraudResult, error) {
	p.logger.Info("kount: checking transaction")

	return FraudResult{Score: 30, Status: VerificationApproved}, nil
}
