// Package config loads the process configuration from a YAML file into an
// explicit value that is passed into service constructors. There is no
// process-wide mutable configuration state.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type (
	// Config is the full process configuration
	Config struct {
		Bank         Bank         `mapstructure:"bank"`
		Postgres     Postgres     `mapstructure:"postgres"`
		RabbitMQ     RabbitMQ     `mapstructure:"rabbitmq"`
		Features     Features     `mapstructure:"features"`
		Limits       Limits       `mapstructure:"limits"`
		Risk         Risk         `mapstructure:"risk"`
		Compliance   Compliance   `mapstructure:"compliance"`
		Integrations Integrations `mapstructure:"integrations"`
	}

	// Bank identifies the institution and its base currency
	Bank struct {
		Name     string `mapstructure:"name"`
		Code     string `mapstructure:"code"`
		Currency string `mapstructure:"currency"`
	}

	// Postgres holds the event store connection settings
	Postgres struct {
		DSN string `mapstructure:"dsn"`
	}

	// RabbitMQ holds the event bus connection settings
	RabbitMQ struct {
		URL string `mapstructure:"url"`
	}

	// Features toggles optional products
	Features struct {
		SavingsAccounts        bool `mapstructure:"savings_accounts"`
		BitcoinCollateral      bool `mapstructure:"bitcoin_collateral"`
		RealTimeFraudDetection bool `mapstructure:"real_time_fraud_detection"`
	}

	// Limits holds account policy amounts in major units of the bank currency
	Limits struct {
		MinimumAccountBalance float64          `mapstructure:"minimum_account_balance"`
		WithdrawalLimits      WithdrawalLimits `mapstructure:"withdrawal_limits"`
	}

	// WithdrawalLimits holds the per-account-type withdrawal ceilings
	WithdrawalLimits struct {
		Checking          float64 `mapstructure:"checking"`
		Savings           float64 `mapstructure:"savings"`
		BitcoinCollateral float64 `mapstructure:"bitcoin_collateral"`
	}

	// Risk holds the customer risk policy thresholds
	Risk struct {
		DefaultCustomerRiskLevel int `mapstructure:"default_customer_risk_level"`
		ManualReviewThreshold    int `mapstructure:"manual_review_threshold"`
		BlockThreshold           int `mapstructure:"block_threshold"`
	}

	// Compliance holds the verification policy
	Compliance struct {
		KYCRequired bool `mapstructure:"kyc_required"`
	}

	// Integrations selects the external provider per capability
	Integrations struct {
		KYC      Integration `mapstructure:"kyc"`
		Custody  Integration `mapstructure:"custody"`
		Fraud    Integration `mapstructure:"fraud"`
		Payments Integration `mapstructure:"payments"`
	}

	// Integration selects one provider by key, or disables the capability
	Integration struct {
		Provider string `mapstructure:"provider"`
		Enabled  bool   `mapstructure:"enabled"`
	}
)

// Load reads and validates the configuration file at path
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("bank.currency", "USD")
	v.SetDefault("risk.manual_review_threshold", 7)
	v.SetDefault("risk.block_threshold", 9)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Bank.Currency) != 3 {
		return fmt.Errorf("bank.currency %q is not a 3-letter ISO code", c.Bank.Currency)
	}
	if c.Risk.ManualReviewThreshold > c.Risk.BlockThreshold {
		return fmt.Errorf(
			"risk.manual_review_threshold %d exceeds risk.block_threshold %d",
			c.Risk.ManualReviewThreshold,
			c.Risk.BlockThreshold,
		)
	}

	return nil
}

// WithdrawalLimit returns the withdrawal ceiling for an account type in major
// units, or false when no limit applies
func (l Limits) WithdrawalLimit(accountType string) (float64, bool) {
	switch accountType {
	case "checking":
		return l.WithdrawalLimits.Checking, true
	case "savings":
		return l.WithdrawalLimits.Savings, true
	case "bitcoin-collateral":
		return l.WithdrawalLimits.BitcoinCollateral, true
	}

	return 0, false
}
