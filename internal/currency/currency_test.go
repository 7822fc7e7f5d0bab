// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package currency

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"eur", " gbp ", "EUR", "", "jpy"})
	assert.Equal(t, []string{"EUR", "GBP", "JPY"}, got)
}

func TestSorted(t *testing.T) {
	got := Sorted(map[string]string{"USD": "US Dollar", "AUD": "Australian Dollar", "eur": "Euro"})
	assert.Equal(t, []string{"AUD", "EUR", "USD"}, got)
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "$", Symbol("usd"))
	assert.Equal(t, "€", Symbol("EUR"))
	assert.Equal(t, "XXZ", Symbol("xxz"))
	assert.True(t, Known("GBP"))
	assert.False(t, Known("XXZ"))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"100", "100", false},
		{" 1,250.5 ", "1250.5", false},
		{"0.01", "0.01", false},
		{"", "", true},
		{"0", "", true},
		{"-5", "", true},
		{"abc", "", true},
		{"1.2.3", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAmount))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestRequestValidate(t *testing.T) {
	one := decimal.NewFromInt(1)

	assert.NoError(t, Request{Amount: one, From: "USD", To: "EUR"}.Validate())
	assert.ErrorIs(t, Request{Amount: one, From: "USD", To: "USD"}.Validate(), ErrSameCurrency)
	// same-currency wins over a bad amount
	assert.ErrorIs(t, Request{Amount: decimal.Zero, From: "USD", To: "USD"}.Validate(), ErrSameCurrency)
	assert.ErrorIs(t, Request{Amount: decimal.Zero, From: "USD", To: "EUR"}.Validate(), ErrInvalidAmount)
	assert.ErrorIs(t, Request{Amount: one, From: "", To: "EUR"}.Validate(), ErrMissingCurrency)
}

func TestRequestEqual(t *testing.T) {
	a := Request{Amount: decimal.RequireFromString("1"), From: "USD", To: "EUR"}
	b := Request{Amount: decimal.RequireFromString("1.00"), From: "USD", To: "EUR"}
	assert.True(t, a.Equal(b))
	b.To = "GBP"
	assert.False(t, a.Equal(b))
}

func TestParseQuoteMode(t *testing.T) {
	m, err := ParseQuoteMode("")
	require.NoError(t, err)
	assert.Equal(t, QuoteTotal, m)

	m, err = ParseQuoteMode("UNIT")
	require.NoError(t, err)
	assert.Equal(t, QuoteUnit, m)

	_, err = ParseQuoteMode("spot")
	assert.Error(t, err)
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		value     string
		mode      QuoteMode
		converted string
		rate      string
	}{
		{"total", "100", "92.5", QuoteTotal, "92.50", "0.9250"},
		{"total repeating", "3", "10", QuoteTotal, "10.00", "3.3333"},
		{"total half up", "1", "2.345", QuoteTotal, "2.35", "2.3450"},
		{"unit", "10", "0.92456", QuoteUnit, "9.25", "0.9246"},
		{"unit large", "1000", "83.12345", QuoteUnit, "83123.45", "83.1235"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Amount: decimal.RequireFromString(tt.amount), From: "USD", To: "EUR"}
			res := Derive(req, decimal.RequireFromString(tt.value), tt.mode)
			assert.Equal(t, tt.converted, res.Converted.StringFixed(2))
			assert.Equal(t, tt.rate, res.RateString())
		})
	}
}

func TestResultStrings(t *testing.T) {
	req := Request{Amount: decimal.NewFromInt(100), From: "USD", To: "EUR"}
	res := Derive(req, decimal.RequireFromString("92.5"), QuoteTotal)
	assert.Equal(t, "92.50 EUR", res.String())
	assert.Equal(t, "1 USD = 0.9250 EUR", res.Describe())
}
