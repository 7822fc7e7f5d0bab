// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package currency holds the value types shared by the converter:
// currency codes, conversion requests and their rounded results.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidAmount is returned when the amount is empty, unparsable or not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrSameCurrency is returned when source and target are the same code.
	ErrSameCurrency = errors.New("source and target currency are the same")

	// ErrMissingCurrency is returned when either side of a request has no code.
	ErrMissingCurrency = errors.New("currency not selected")
)

// =============================================================================
// CODES
// =============================================================================

// Normalize trims and upper-cases a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeAll upper-cases every code and drops blanks and duplicates,
// keeping the first occurrence.
func NormalizeAll(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		c = Normalize(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Sorted returns the keys of a code->name map in alphabetical order.
func Sorted(names map[string]string) []string {
	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, Normalize(code))
	}
	sort.Strings(codes)
	return NormalizeAll(codes)
}

// Symbol returns the display grapheme for a code, or the code itself when
// the currency is unknown.
func Symbol(code string) string {
	if cur := money.GetCurrency(Normalize(code)); cur != nil && cur.Grapheme != "" {
		return cur.Grapheme
	}
	return Normalize(code)
}

// Known reports whether the code is an ISO 4217 currency.
func Known(code string) bool {
	return money.GetCurrency(Normalize(code)) != nil
}

// =============================================================================
// REQUEST
// =============================================================================

// ParseAmount parses user input into a positive decimal.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if text == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Request is one conversion to perform.
type Request struct {
	Amount decimal.Decimal
	From   string
	To     string
}

// Validate checks the request. Same-currency is reported before the amount
// so the user sees it regardless of what was typed.
func (r Request) Validate() error {
	if r.From == "" || r.To == "" {
		return ErrMissingCurrency
	}
	if r.From == r.To {
		return ErrSameCurrency
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Equal compares amounts numerically so "1" and "1.00" are the same request.
func (r Request) Equal(o Request) bool {
	return r.From == o.From && r.To == o.To && r.Amount.Equal(o.Amount)
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s->%s", r.Amount.String(), r.From, r.To)
}

// =============================================================================
// RESULT
// =============================================================================

// QuoteMode says how to read the value a rate source returns.
type QuoteMode string

const (
	// QuoteTotal means the value is already multiplied by the amount.
	QuoteTotal QuoteMode = "total"
	// QuoteUnit means the value is the rate for one unit of the source.
	QuoteUnit QuoteMode = "unit"
)

// ParseQuoteMode accepts "total" or "unit"; anything else is an error.
func ParseQuoteMode(s string) (QuoteMode, error) {
	switch QuoteMode(strings.ToLower(strings.TrimSpace(s))) {
	case QuoteTotal, "":
		return QuoteTotal, nil
	case QuoteUnit:
		return QuoteUnit, nil
	}
	return "", fmt.Errorf("unknown quote mode %q", s)
}

// Result is a completed conversion, already rounded for display.
type Result struct {
	Request   Request
	Converted decimal.Decimal // 2 decimals
	Rate      decimal.Decimal // 4 decimals
}

// Derive builds a Result from the value returned for req.
func Derive(req Request, value decimal.Decimal, mode QuoteMode) Result {
	var converted, rate decimal.Decimal
	switch mode {
	case QuoteUnit:
		converted = value.Mul(req.Amount).Round(2)
		rate = value.Round(4)
	default:
		converted = value.Round(2)
		if req.Amount.IsZero() {
			rate = decimal.Zero
		} else {
			rate = value.Div(req.Amount).Round(4)
		}
	}
	return Result{Request: req, Converted: converted, Rate: rate}
}

// String renders the converted amount, e.g. "92.50 EUR".
func (r Result) String() string {
	return r.Converted.StringFixed(2) + " " + r.Request.To
}

// RateString renders the implied unit rate with four decimals.
func (r Result) RateString() string {
	return r.Rate.StringFixed(4)
}

// Describe renders "1 USD = 0.9250 EUR".
func (r Result) Describe() string {
	return fmt.Sprintf("1 %s = %s %s", r.Request.From, r.RateString(), r.Request.To)
}
