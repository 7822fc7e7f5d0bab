// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package converter holds the conversion state machine.
//
// The Controller is pure: it never performs I/O or starts timers. Methods
// that may require a rate fetch return a Fetch describing it, and the
// caller (the TUI or the REPL) performs the call and reports back with
// ConversionSucceeded or ConversionFailed. Every fetch carries a sequence
// number; reports for anything but the latest fetch are discarded.
//
//	Loading --CurrenciesLoaded--> Ready <--> Converting
//	   |                            ^
//	   +--CurrenciesFailed--> ListError --Retry--> Loading
package converter

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jeranaias/fxrun/internal/currency"
)

// User-facing messages.
const (
	MsgListUnavailable  = "Currencies unavailable. Press ctrl+r to retry."
	MsgConversionFailed = "Conversion failed. Try again."
	MsgSameCurrency     = "Select two different currencies"
	MsgInvalidAmount    = "Enter an amount greater than zero"
)

// =============================================================================
// STATE TYPES
// =============================================================================

// Phase is the controller lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseConverting
	PhaseListError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseConverting:
		return "converting"
	case PhaseListError:
		return "list_error"
	}
	return "unknown"
}

// Notice is guidance shown instead of a result when the input cannot be
// converted. It is not an error.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeSameCurrency
	NoticeInvalidAmount
)

func (n Notice) String() string {
	switch n {
	case NoticeSameCurrency:
		return MsgSameCurrency
	case NoticeInvalidAmount:
		return MsgInvalidAmount
	}
	return ""
}

// Fetch is a rate request the caller must perform.
type Fetch struct {
	Seq     uint64
	Request currency.Request
}

// Options configures New.
type Options struct {
	DefaultAmount string
	From          string
	To            string
	QuoteMode     currency.QuoteMode
	Logger        *slog.Logger
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the amount, the currency pair and the conversion result.
// It is not safe for concurrent use; the UI loop is its only caller.
type Controller struct {
	phase Phase

	names map[string]string
	codes []string

	amountText  string
	amount      decimal.Decimal
	amountValid bool
	gen         uint64

	from string
	to   string

	notice Notice
	errMsg string
	result *currency.Result

	seq     uint64
	pending *currency.Request
	last    *currency.Request

	mode   currency.QuoteMode
	logger *slog.Logger
}

// New returns a controller in the Loading phase. The caller should fetch
// the currency list and report with CurrenciesLoaded or CurrenciesFailed.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mode := opts.QuoteMode
	if mode == "" {
		mode = currency.QuoteTotal
	}
	text := opts.DefaultAmount
	if text == "" {
		text = "1"
	}

	c := &Controller{
		phase:      PhaseLoading,
		amountText: text,
		from:       currency.Normalize(opts.From),
		to:         currency.Normalize(opts.To),
		mode:       mode,
		logger:     logger,
	}
	c.parseAmount()
	return c
}

// =============================================================================
// ACCESSORS
// =============================================================================

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) AmountText() string { return c.amountText }
func (c *Controller) From() string       { return c.from }
func (c *Controller) To() string         { return c.to }
func (c *Controller) Notice() Notice     { return c.notice }

// Err is the current error message, empty when there is none.
func (c *Controller) Err() string { return c.errMsg }

// Codes returns the available currency codes in alphabetical order.
func (c *Controller) Codes() []string {
	return append([]string(nil), c.codes...)
}

// Names returns the code -> display name map from the service.
func (c *Controller) Names() map[string]string {
	return c.names
}

// Result returns the last conversion result if one is displayed.
func (c *Controller) Result() (currency.Result, bool) {
	if c.result == nil {
		return currency.Result{}, false
	}
	return *c.result, true
}

// Pending returns the in-flight fetch, if any.
func (c *Controller) Pending() (Fetch, bool) {
	if c.pending == nil {
		return Fetch{}, false
	}
	return Fetch{Seq: c.seq, Request: *c.pending}, true
}

// Disabled reports whether the amount, swap and selectors reject input.
func (c *Controller) Disabled() bool {
	return c.phase != PhaseReady
}

// =============================================================================
// CURRENCY LIST
// =============================================================================

// CurrenciesLoaded moves Loading to Ready and evaluates the initial request.
func (c *Controller) CurrenciesLoaded(names map[string]string) (Fetch, bool) {
	if c.phase != PhaseLoading {
		return Fetch{}, false
	}
	c.names = names
	c.codes = currency.Sorted(names)
	c.phase = PhaseReady
	c.errMsg = ""
	c.logger.Info("CURRENCIES_LOADED", "count", len(c.codes))
	return c.evaluate()
}

// CurrenciesFailed moves Loading to ListError.
func (c *Controller) CurrenciesFailed(err error) {
	if c.phase != PhaseLoading {
		return
	}
	c.phase = PhaseListError
	c.errMsg = MsgListUnavailable
	c.logger.Error("CURRENCIES_FAILED", "error", err)
}

// Retry moves ListError back to Loading. It reports whether the caller
// should fetch the list again.
func (c *Controller) Retry() bool {
	if c.phase != PhaseListError {
		return false
	}
	c.phase = PhaseLoading
	c.errMsg = ""
	c.logger.Info("CURRENCIES_RETRY")
	return true
}

// =============================================================================
// INPUT
// =============================================================================

// EditAmount records raw amount text and returns the debounce generation
// the caller must hand back to SettleAmount once the quiet period ends.
// ok is false when input is disabled.
func (c *Controller) EditAmount(text string) (gen uint64, ok bool) {
	if c.Disabled() {
		return 0, false
	}
	c.amountText = text
	c.gen++
	return c.gen, true
}

// SettleAmount applies the amount text if gen is still the latest edit.
func (c *Controller) SettleAmount(gen uint64) (Fetch, bool) {
	if gen != c.gen {
		return Fetch{}, false
	}
	c.parseAmount()
	return c.evaluate()
}

// SetFrom selects the source currency.
func (c *Controller) SetFrom(code string) (Fetch, bool) {
	if c.Disabled() {
		return Fetch{}, false
	}
	c.from = currency.Normalize(code)
	return c.evaluate()
}

// SetTo selects the target currency.
func (c *Controller) SetTo(code string) (Fetch, bool) {
	if c.Disabled() {
		return Fetch{}, false
	}
	c.to = currency.Normalize(code)
	return c.evaluate()
}

// Swap exchanges source and target and clears the displayed result.
func (c *Controller) Swap() (Fetch, bool) {
	if c.Disabled() {
		return Fetch{}, false
	}
	c.from, c.to = c.to, c.from
	c.result = nil
	return c.evaluate()
}

// SetRequest replaces amount and both currencies at once and evaluates
// once. Empty arguments keep the current value.
func (c *Controller) SetRequest(amountText, from, to string) (Fetch, bool) {
	if c.Disabled() {
		return Fetch{}, false
	}
	if amountText != "" {
		c.amountText = amountText
		c.gen++
		c.parseAmount()
	}
	if from != "" {
		c.from = currency.Normalize(from)
	}
	if to != "" {
		c.to = currency.Normalize(to)
	}
	return c.evaluate()
}

// SetAmount replaces the amount immediately, bypassing the debounce.
func (c *Controller) SetAmount(text string) (Fetch, bool) {
	if c.Disabled() {
		return Fetch{}, false
	}
	c.amountText = text
	c.gen++
	c.parseAmount()
	return c.evaluate()
}

func (c *Controller) parseAmount() {
	amount, err := currency.ParseAmount(c.amountText)
	c.amount = amount
	c.amountValid = err == nil
}

// =============================================================================
// FETCH RESULTS
// =============================================================================

// ConversionSucceeded stores the result for seq. It reports false when the
// response is stale and was discarded.
func (c *Controller) ConversionSucceeded(seq uint64, value decimal.Decimal) bool {
	if !c.current(seq) {
		return false
	}
	res := currency.Derive(*c.pending, value, c.mode)
	c.result = &res
	c.last = c.pending
	c.pending = nil
	c.phase = PhaseReady
	c.logger.Debug("CONVERSION_COMPLETED",
		"seq", seq,
		"from", res.Request.From,
		"to", res.Request.To,
		"amount", res.Request.Amount.String(),
		"converted", res.Converted.StringFixed(2))
	return true
}

// ConversionFailed records the failure for seq. It reports false when the
// response is stale and was discarded.
func (c *Controller) ConversionFailed(seq uint64, err error) bool {
	if !c.current(seq) {
		return false
	}
	c.logger.Warn("CONVERSION_FAILED",
		"seq", seq,
		"from", c.pending.From,
		"to", c.pending.To,
		"amount", c.pending.Amount.String(),
		"error", err)
	c.result = nil
	c.last = nil
	c.pending = nil
	c.errMsg = MsgConversionFailed
	c.phase = PhaseReady
	return true
}

func (c *Controller) current(seq uint64) bool {
	if c.pending == nil || seq != c.seq {
		c.logger.Debug("STALE_RESPONSE_DISCARDED", "seq", seq, "latest", c.seq)
		return false
	}
	return true
}

// =============================================================================
// EVALUATION
// =============================================================================

// evaluate derives the request from the inputs and decides whether a new
// fetch is needed.
func (c *Controller) evaluate() (Fetch, bool) {
	if c.phase != PhaseReady && c.phase != PhaseConverting {
		return Fetch{}, false
	}

	req := currency.Request{Amount: c.amount, From: c.from, To: c.to}
	if !c.amountValid {
		req.Amount = decimal.Zero
	}

	switch err := req.Validate(); err {
	case nil:
	case currency.ErrSameCurrency:
		c.hold(NoticeSameCurrency)
		return Fetch{}, false
	case currency.ErrInvalidAmount:
		c.hold(NoticeInvalidAmount)
		return Fetch{}, false
	default:
		c.hold(NoticeNone)
		return Fetch{}, false
	}
	c.notice = NoticeNone

	if c.result != nil && c.last != nil && c.last.Equal(req) {
		return Fetch{}, false
	}
	if c.pending != nil && c.pending.Equal(req) {
		return Fetch{}, false
	}

	c.seq++
	c.pending = &req
	c.result = nil
	c.errMsg = ""
	c.phase = PhaseConverting
	c.logger.Debug("CONVERSION_STARTED",
		"seq", c.seq,
		"from", req.From,
		"to", req.To,
		"amount", req.Amount.String())
	return Fetch{Seq: c.seq, Request: req}, true
}

// hold shows a notice instead of a result and abandons any in-flight fetch.
func (c *Controller) hold(n Notice) {
	c.notice = n
	c.result = nil
	c.errMsg = ""
	c.pending = nil
	c.phase = PhaseReady
}
