package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianbank/ledgercore"
)

// The custody providers below are sandbox mocks returning provider-shaped
// wallet, address and transaction references.

type bitGoCustody struct {
	logger ledgercore.Logger
}

// NewBitGoCustody returns the BitGo custody mock
func NewBitGoCustody(logger ledgercore.Logger) Custody {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("bitgo custody provider initialized")
	return &bitGoCustody{logger: logger}
}

func (p *bitGoCustody) CreateWallet(ctx context.Context, name string) (Wallet, error) {
	p.logger.WithField("name", name).Info("bitgo: creating wallet")

	return Wallet{WalletID: fmt.Sprintf("bitgo-wallet-%s", uuid.NewString())}, nil
}

func (p *bitGoCustody) GetDepositAddress(ctx context.Context, walletID string) (string, error) {
	p.logger.WithField("wallet_id", walletID).Info("bitgo: fetching deposit address")

	return fmt.Sprintf("bc1q%s", uuid.NewString()[:16]), nil
}

func (p *bitGoCustody) InitiateWithdrawal(ctx context.Context, walletID, address, amount string) (string, error) {
	p.logger.
		WithField("wallet_id", walletID).
		WithField("address", address).
		WithField("amount", amount).
		Info("bitgo: initiating withdrawal")

	return fmt.Sprintf("bitgo-tx-%s", uuid.NewString()), nil
}

type coinbaseCustody struct {
	logger ledgercore.Logger
}

// NewCoinbaseCustody returns the Coinbase custody mock
func NewCoinbaseCustody(logger ledgercore.Logger) Custody {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("coinbase custody provider initialized")
	return &coinbaseCustody{logger: logger}
}

func (p *coinbaseCustody) CreateWallet(ctx context.Context, name string) (Wallet, error) {
	p.logger.WithField("name", name).Info("coinbase: creating wallet")

	return Wallet{WalletID: fmt.Sprintf("coinbase-wallet-%s", uuid.NewString())}, nil
}

func (p *coinbaseCustody) GetDepositAddress(ctx context.Context, walletID string) (string, error) {
	p.logger.WithField("wallet_id", walletID).Info("coinbase: fetching deposit address")

	return fmt.Sprintf("bc1q%s", uuid.NewString()[:16]), nil
}

func (p *coinbaseCustody) InitiateWithdrawal(ctx context.Context, walletID, address, amount string) (string, error) {
	p.logger.
		WithField("wallet_id", walletID).
		WithField("address", address).
		WithField("amount", amount).
		Info("coinbase: initiating withdrawal")

	return fmt.Sprintf("coinbase-tx-%s", uuid.NewString()), nil
}

type fireblocksCustody struct {
	logger ledgercore.Logger
}

// NewFireblocksCustody returns the Fireblocks custody mock
func NewFireblocksCustody(logger ledgercore.Logger) Custody {
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	logger.Info("fireblocks custody provider initialized")
	return &fireblocksCustody{logger: logger}
}

func (p *fireblocksCustody) CreateWallet(ctx context.Context, name string) (Wallet, error) {
	p.logger.WithField("name", name).Info("fireblocks: creating vault account")

	return Wallet{WalletID: fmt.Sprintf("fireblocks-vault-%s", uuid.NewString())}, nil
}

func (p *fireblocksCustody) GetDepositAddress(ctx context.Context, walletID string) (string, error) {
	p.logger.WithField("wallet_id", walletID).Info("fireblocks: fetching deposit address")

	return fmt.Sprintf("bc1q%s", uuid.NewString()[:16]), nil
}

func (p *fireblocksCustody) InitiateWithdrawal(ctx context.Context, walletID, address, amount string) (string, error) {
	p.logger.
		WithField("wallet_id", walletID).
		WithField("address", address).
		WithField("amount", amount).
		Info("fireblocks: initiating withdrawal")

	return fmt.Sprintf("fireblocks-tx-%s", uuid.NewString()), nil
}
