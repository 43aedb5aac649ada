package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianbank/ledgercore/money"
)

func TestNew(t *testing.T) {
	t.Run("converts major units to minor units", func(t *testing.T) {
		m, err := money.New(decimal.NewFromFloat(130.00), "USD")

		require.NoError(t, err)
		assert.Equal(t, int64(13000), m.Amount())
		assert.Equal(t, "USD", m.Currency())
	})

	t.Run("rounds half away from zero", func(t *testing.T) {
		m, err := money.New(decimal.NewFromFloat(10.005), "USD")

		require.NoError(t, err)
		assert.Equal(t, int64(1001), m.Amount())
	})

	t.Run("rejects invalid currency codes", func(t *testing.T) {
		for _, code := range []string{"", "US", "DOLLARS"} {
			_, err := money.New(decimal.NewFromInt(1), code)

			assert.ErrorIs(t, err, money.ErrInvalidCurrencyCode)
		}
	})
}

func TestFromMinorUnits(t *testing.T) {
	m, err := money.FromMinorUnits(250, "EUR")

	require.NoError(t, err)
	assert.Equal(t, int64(250), m.Amount())
	assert.Equal(t, "EUR", m.Currency())
}

func TestMoneyArithmetic(t *testing.T) {
	usd := func(minor int64) money.Money {
		m, err := money.FromMinorUnits(minor, "USD")
		require.NoError(t, err)
		return m
	}

	t.Run("add", func(t *testing.T) {
		sum, err := usd(10000).Add(usd(3000))

		require.NoError(t, err)
		assert.Equal(t, int64(13000), sum.Amount())
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := usd(10000).Subtract(usd(3000))

		require.NoError(t, err)
		assert.Equal(t, int64(7000), diff.Amount())
	})

	t.Run("subtract below zero", func(t *testing.T) {
		diff, err := usd(100).Subtract(usd(300))

		require.NoError(t, err)
		assert.Equal(t, int64(-200), diff.Amount())
	})

	t.Run("mismatched currencies", func(t *testing.T) {
		eur, err := money.FromMinorUnits(3000, "EUR")
		require.NoError(t, err)

		_, addErr := usd(10000).Add(eur)
		_, subErr := usd(10000).Subtract(eur)

		assert.ErrorIs(t, addErr, money.ErrCurrencyMismatch)
		assert.ErrorIs(t, subErr, money.ErrCurrencyMismatch)
	})

	t.Run("operands are not mutated", func(t *testing.T) {
		a, b := usd(10000), usd(3000)

		_, err := a.Add(b)
		require.NoError(t, err)

		assert.Equal(t, int64(10000), a.Amount())
		assert.Equal(t, int64(3000), b.Amount())
	})
}

func TestMoneyEquality(t *testing.T) {
	a, err := money.FromMinorUnits(500, "USD")
	require.NoError(t, err)
	b, err := money.New(decimal.NewFromInt(5), "USD")
	require.NoError(t, err)
	c, err := money.FromMinorUnits(500, "EUR")
	require.NoError(t, err)

	assert.True(t, a == b)
	assert.False(t, a == c)
}

func TestMoneyJSON(t *testing.T) {
	m, err := money.FromMinorUnits(13000, "USD")
	require.NoError(t, err)

	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"amountMinorUnits": 13000, "currencyCode": "USD"}`, string(data))

	var decoded money.Money
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, m, decoded)
}

func TestMoneyString(t *testing.T) {
	m, err := money.FromMinorUnits(13000, "USD")
	require.NoError(t, err)

	assert.Equal(t, "13000 USD", m.String())
}
