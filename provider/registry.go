package provider

import (
	"fmt"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/config"
)

// Strategy maps from configuration keys to constructor functions. Unknown
// keys fail at startup rather than at first use.
var (
	kycProviders = map[string]func(ledgercore.Logger) KYC{
		"jumio":   func(l ledgercore.Logger) KYC { return NewJumioKYC(l) },
		"onfido":  func(l ledgercore.Logger) KYC { return NewOnfidoKYC(l) },
		"persona": func(l ledgercore.Logger) KYC { return NewPersonaKYC(l) },
	}

	custodyProviders = map[string]func(ledgercore.Logger) Custody{
		"bitgo":      func(l ledgercore.Logger) Custody { return NewBitGoCustody(l) },
		"coinbase":   func(l ledgercore.Logger) Custody { return NewCoinbaseCustody(l) },
		"fireblocks": func(l ledgercore.Logger) Custody { return NewFireblocksCustody(l) },
	}

	fraudProviders = map[string]func(ledgercore.Logger) Fraud{
		"sift":  func(l ledgercore.Logger) Fraud { return NewSiftFraud(l) },
		"kount": func(l ledgercore.Logger) Fraud { return NewKountFraud(l) },
	}

	paymentProviders = map[string]func(ledgercore.Logger) Payments{
		"stripe": func(l ledgercore.Logger) Payments { return NewStripePayments(l) },
		"plaid":  func(l ledgercore.Logger) Payments { return NewPlaidPayments(l) },
	}
)

// Set is the resolved set of enabled providers. A nil field means the
// integration is disabled.
type Set struct {
	KYC      KYC
	Custody  Custody
	Fraud    Fraud
	Payments Payments
}

// NewSet resolves every enabled integration to its provider, failing fast on
// unknown provider keys
func NewSet(integrations config.Integrations, logger ledgercore.Logger) (Set, error) {
	if logger == nil {
		logger = ledgercore.NopLogger
	}

	var set Set

	if integrations.KYC.Enabled {
		construct, found := kycProviders[integrations.KYC.Provider]
		if !found {
			return Set{}, fmt.Errorf("unknown kyc provider: %q", integrations.KYC.Provider)
		}
		set.KYC = construct(logger)
	}

	if integrations.Custody.Enabled {
		construct, found := custodyProviders[integrations.Custody.Provider]
		if !found {
			return Set{}, fmt.Errorf("unknown custody provider: %q", integrations.Custody.Provider)
		}
		set.Custody = construct(logger)
	}

	if integrations.Fraud.Enabled {
		construct, found := fraudProviders[integrations.Fraud.Provider]
		if !found {
			return Set{}, fmt.Errorf("unknown fraud provider: %q", integrations.Fraud.Provider)
		}
		set.Fraud = construct(logger)
	}

	if integrations.Payments.Enabled {
		construct, found := paymentProviders[integrations.Payments.Provider]
		if !found {
			return Set{}, fmt.Errorf("unknown payment provider: %q", integrations.Payments.Provider)
		}
		set.Payments = construct(logger)
	}

	return set, nil
}
