// Package money provides an immutable fixed-point currency value.
//
// Amounts are stored in the currency's minor unit (e.g. cents) as an integer
// to avoid floating-point drift. All arithmetic requires equal currency codes
// and returns new values; Money itself never clamps, so negative results are
// representable and must be checked by callers.
package money

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCurrencyCode occurs when a currency code is not a 3-letter ISO code
	ErrInvalidCurrencyCode = errors.New("currency must be a 3-letter ISO code")
	// ErrCurrencyMismatch occurs when arithmetic is attempted across currencies
	ErrCurrencyMismatch = errors.New("mismatched currencies")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// minorUnitFactor converts a major-unit decimal amount into minor units
var minorUnitFactor = decimal.NewFromInt(100)

// Money is an immutable amount of a single currency. The zero value is an
// invalid Money; use New or FromMinorUnits. Equality is structural, so two
// Money values compare equal with == when amount and currency match.
type Money struct {
	amount   int64
	currency string
}

// New converts a decimal major-unit amount into a Money, rounding
// half-away-from-zero to the nearest minor unit
func New(amount decimal.Decimal, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrencyCode
	}

	return Money{
		amount:   amount.Mul(minorUnitFactor).Round(0).IntPart(),
		currency: currency,
	}, nil
}

// FromMinorUnits reconstructs a Money from raw minor units without
// re-deriving from a decimal, as when replaying events
func FromMinorUnits(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrencyCode
	}

	return Money{amount: amount, currency: currency}, nil
}

// Amount returns the amount in minor units
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the 3-letter currency code
func (m Money) Currency() string {
	return m.currency
}

// Add returns a new Money with the summed amount
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.currency, m.currency)
	}

	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns a new Money with the differenced amount
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrCurrencyMismatch, other.currency, m.currency)
	}

	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}

// moneyJSON is the wire shape of a Money embedded in an event payload
type moneyJSON struct {
	AmountMinorUnits int64  `json:"amountMinorUnits"`
	CurrencyCode     string `json:"currencyCode"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		AmountMinorUnits: m.amount,
		CurrencyCode:     m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := FromMinorUnits(raw.AmountMinorUnits, raw.CurrencyCode)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
