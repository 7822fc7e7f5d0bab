// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package converter

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/fxrun/internal/currency"
)

var testNames = map[string]string{
	"EUR": "Euro",
	"GBP": "British Pound",
	"INR": "Indian Rupee",
	"JPY": "Japanese Yen",
	"USD": "United States Dollar",
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ready returns a controller that has loaded the list and completed the
// initial conversion of 1 USD -> INR.
func ready(t *testing.T, opts Options) *Controller {
	t.Helper()
	if opts.From == "" {
		opts.From = "USD"
	}
	if opts.To == "" {
		opts.To = "INR"
	}
	c := New(opts)
	f, ok := c.CurrenciesLoaded(testNames)
	require.True(t, ok)
	require.True(t, c.ConversionSucceeded(f.Seq, dec("83.12")))
	require.Equal(t, PhaseReady, c.Phase())
	return c
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoading_Success(t *testing.T) {
	c := New(Options{From: "usd", To: "inr"})
	assert.Equal(t, PhaseLoading, c.Phase())
	assert.True(t, c.Disabled())
	assert.Equal(t, "1", c.AmountText())

	f, ok := c.CurrenciesLoaded(testNames)
	require.True(t, ok)
	assert.Equal(t, []string{"EUR", "GBP", "INR", "JPY", "USD"}, c.Codes())
	assert.Equal(t, PhaseConverting, c.Phase())
	assert.Equal(t, uint64(1), f.Seq)
	assert.Equal(t, "USD", f.Request.From)
	assert.Equal(t, "INR", f.Request.To)
	assert.True(t, f.Request.Amount.Equal(dec("1")))

	require.True(t, c.ConversionSucceeded(f.Seq, dec("83.1234")))
	res, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, "83.12 INR", res.String())
	assert.Equal(t, "1 USD = 83.1234 INR", res.Describe())
	assert.Equal(t, PhaseReady, c.Phase())
	assert.False(t, c.Disabled())
}

func TestLoading_FailureAndRetry(t *testing.T) {
	c := New(Options{From: "USD", To: "EUR"})
	assert.False(t, c.Retry(), "retry only applies after a failure")

	c.CurrenciesFailed(errors.New("boom"))
	assert.Equal(t, PhaseListError, c.Phase())
	assert.Equal(t, MsgListUnavailable, c.Err())
	assert.True(t, c.Disabled())
	assert.Empty(t, c.Codes())

	_, ok := c.SetFrom("GBP")
	assert.False(t, ok)
	assert.Equal(t, "USD", c.From())
	_, ok = c.EditAmount("5")
	assert.False(t, ok)

	require.True(t, c.Retry())
	assert.Equal(t, PhaseLoading, c.Phase())
	assert.Empty(t, c.Err())

	_, ok = c.CurrenciesLoaded(testNames)
	assert.True(t, ok)
	assert.Equal(t, PhaseConverting, c.Phase())
}

func TestLoading_IgnoresLateListResults(t *testing.T) {
	c := ready(t, Options{})
	_, ok := c.CurrenciesLoaded(map[string]string{"XXX": "x"})
	assert.False(t, ok)
	c.CurrenciesFailed(errors.New("late"))
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Len(t, c.Codes(), 5)
}

// =============================================================================
// DEBOUNCE
// =============================================================================

func TestDebounce_OnlyLatestGenerationSettles(t *testing.T) {
	c := ready(t, Options{})

	g1, ok := c.EditAmount("1")
	require.True(t, ok)
	g2, _ := c.EditAmount("10")
	g3, _ := c.EditAmount("100")
	assert.Less(t, g1, g2)
	assert.Less(t, g2, g3)

	_, ok = c.SettleAmount(g1)
	assert.False(t, ok)
	_, ok = c.SettleAmount(g2)
	assert.False(t, ok)
	assert.Equal(t, PhaseReady, c.Phase(), "superseded ticks start nothing")

	f, ok := c.SettleAmount(g3)
	require.True(t, ok)
	assert.True(t, f.Request.Amount.Equal(dec("100")))
}

func TestDebounce_UnchangedAmountDoesNotRefetch(t *testing.T) {
	c := ready(t, Options{})
	gen, _ := c.EditAmount("1.00")
	_, ok := c.SettleAmount(gen)
	assert.False(t, ok, "same request as the last completed one")
	_, has := c.Result()
	assert.True(t, has)
}

// =============================================================================
// VALIDATION NOTICES
// =============================================================================

func TestNotice_SameCurrency(t *testing.T) {
	c := ready(t, Options{})

	_, ok := c.SetTo("USD")
	assert.False(t, ok)
	assert.Equal(t, NoticeSameCurrency, c.Notice())
	assert.Equal(t, "Select two different currencies", c.Notice().String())
	_, has := c.Result()
	assert.False(t, has)

	// regardless of amount
	gen, _ := c.EditAmount("0")
	_, ok = c.SettleAmount(gen)
	assert.False(t, ok)
	assert.Equal(t, NoticeSameCurrency, c.Notice())
}

func TestNotice_InvalidAmount(t *testing.T) {
	for _, text := range []string{"0", "", "-3", "abc"} {
		t.Run(text, func(t *testing.T) {
			c := ready(t, Options{})
			gen, _ := c.EditAmount(text)
			_, ok := c.SettleAmount(gen)
			assert.False(t, ok)
			assert.Equal(t, NoticeInvalidAmount, c.Notice())
			assert.Equal(t, "Enter an amount greater than zero", c.Notice().String())
			_, has := c.Result()
			assert.False(t, has)
		})
	}
}

func TestNotice_ClearsOnValidInput(t *testing.T) {
	c := ready(t, Options{})
	c.SetTo("USD")
	f, ok := c.SetTo("EUR")
	require.True(t, ok)
	assert.Equal(t, NoticeNone, c.Notice())
	assert.Equal(t, "EUR", f.Request.To)
}

// =============================================================================
// CONVERTING
// =============================================================================

func TestConverting_DisablesInput(t *testing.T) {
	c := ready(t, Options{})
	f, ok := c.SetTo("EUR")
	require.True(t, ok)
	assert.Equal(t, PhaseConverting, c.Phase())
	assert.True(t, c.Disabled())
	_, has := c.Result()
	assert.False(t, has, "previous result cleared when a new fetch begins")

	_, ok = c.Swap()
	assert.False(t, ok)
	_, ok = c.SetFrom("GBP")
	assert.False(t, ok)
	_, ok = c.EditAmount("9")
	assert.False(t, ok)
	assert.Equal(t, "USD", c.From())
	assert.Equal(t, "EUR", c.To())

	p, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, f, p)
}

func TestConverting_FailureMessageAndRecovery(t *testing.T) {
	c := ready(t, Options{})
	f, _ := c.SetTo("EUR")

	require.True(t, c.ConversionFailed(f.Seq, errors.New("502")))
	assert.Equal(t, MsgConversionFailed, c.Err())
	assert.Equal(t, PhaseReady, c.Phase())
	_, has := c.Result()
	assert.False(t, has)

	// the same request is retried because the last completed one was forgotten
	gen, _ := c.EditAmount("1")
	f2, ok := c.SettleAmount(gen)
	require.True(t, ok)
	assert.Greater(t, f2.Seq, f.Seq)
	assert.Empty(t, c.Err(), "error cleared when a new fetch begins")
}

func TestConverting_StaleResponseDiscarded(t *testing.T) {
	c := ready(t, Options{})
	f1, _ := c.SetTo("EUR")

	// an amount edit made before the fetch began settles during it
	c2 := ready(t, Options{})
	gen, _ := c2.EditAmount("50")
	a, _ := c2.SetTo("EUR")
	b, ok := c2.SettleAmount(gen)
	require.True(t, ok)
	assert.Greater(t, b.Seq, a.Seq)

	assert.False(t, c2.ConversionSucceeded(a.Seq, dec("0.92")), "older sequence is stale")
	_, has := c2.Result()
	assert.False(t, has)
	require.True(t, c2.ConversionSucceeded(b.Seq, dec("46")))
	res, _ := c2.Result()
	assert.Equal(t, "46.00 EUR", res.String())

	// late responses after completion are ignored too
	assert.False(t, c2.ConversionFailed(a.Seq, errors.New("late")))
	assert.Empty(t, c2.Err())

	require.True(t, c.ConversionSucceeded(f1.Seq, dec("0.92")))
	assert.False(t, c.ConversionSucceeded(f1.Seq, dec("0.50")), "duplicate delivery")
	res, _ = c.Result()
	assert.Equal(t, "0.92 EUR", res.String())
}

func TestConverting_NoticeAbandonsInFlight(t *testing.T) {
	c := ready(t, Options{})
	gen, _ := c.EditAmount("0")
	f, _ := c.SetTo("EUR")
	_, ok := c.SettleAmount(gen)
	assert.False(t, ok)
	assert.Equal(t, NoticeInvalidAmount, c.Notice())
	assert.Equal(t, PhaseReady, c.Phase())

	assert.False(t, c.ConversionSucceeded(f.Seq, dec("1")))
	_, has := c.Result()
	assert.False(t, has)
}

// =============================================================================
// SWAP
// =============================================================================

func TestSwap(t *testing.T) {
	c := ready(t, Options{})
	f, ok := c.Swap()
	require.True(t, ok)
	assert.Equal(t, "INR", c.From())
	assert.Equal(t, "USD", c.To())
	assert.Equal(t, "INR", f.Request.From)
	_, has := c.Result()
	assert.False(t, has)

	require.True(t, c.ConversionSucceeded(f.Seq, dec("0.012")))
	res, _ := c.Result()
	assert.Equal(t, "0.01 USD", res.String())
	assert.Equal(t, "1 INR = 0.0120 USD", res.Describe())
}

func TestSwap_Twice(t *testing.T) {
	c := ready(t, Options{})
	f, _ := c.Swap()
	c.ConversionSucceeded(f.Seq, dec("0.012"))
	f2, ok := c.Swap()
	require.True(t, ok, "result was cleared so the pair is fetched again")
	assert.Equal(t, "USD", f2.Request.From)
	assert.Equal(t, "INR", f2.Request.To)
}

// =============================================================================
// QUOTE MODE
// =============================================================================

func TestQuoteMode(t *testing.T) {
	total := ready(t, Options{DefaultAmount: "100"})
	f, _ := total.SetTo("EUR")
	total.ConversionSucceeded(f.Seq, dec("92.5"))
	res, _ := total.Result()
	assert.Equal(t, "92.50 EUR", res.String())
	assert.Equal(t, "0.9250", res.RateString())

	unit := ready(t, Options{DefaultAmount: "100", QuoteMode: currency.QuoteUnit})
	f, _ = unit.SetTo("EUR")
	unit.ConversionSucceeded(f.Seq, dec("0.925"))
	res, _ = unit.Result()
	assert.Equal(t, "92.50 EUR", res.String())
	assert.Equal(t, "0.9250", res.RateString())
}

func TestSetAmount_Immediate(t *testing.T) {
	c := ready(t, Options{})
	f, ok := c.SetAmount("250")
	require.True(t, ok)
	assert.True(t, f.Request.Amount.Equal(dec("250")))
	assert.Equal(t, "250", c.AmountText())
}

func TestSetRequest_SingleFetch(t *testing.T) {
	c := ready(t, Options{})
	f, ok := c.SetRequest("100", "gbp", "jpy")
	require.True(t, ok)
	assert.Equal(t, currency.Request{Amount: dec("100"), From: "GBP", To: "JPY"}.String(), f.Request.String())

	require.True(t, c.ConversionSucceeded(f.Seq, dec("19050")))
	_, ok = c.SetRequest("", "", "")
	assert.False(t, ok, "nothing changed")

	f, ok = c.SetRequest("", "", "EUR")
	require.True(t, ok)
	assert.Equal(t, "GBP", f.Request.From)
	assert.True(t, f.Request.Amount.Equal(dec("100")))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "converting", PhaseConverting.String())
	assert.Equal(t, "list_error", PhaseListError.String())
	assert.Equal(t, "", NoticeNone.String())
}
