// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/shopspring/decimal"
)

// currenciesMsg carries the result of a currency list fetch.
type currenciesMsg struct {
	names map[string]string
	err   error
}

// rateMsg carries the result of the rate fetch with sequence number seq.
type rateMsg struct {
	seq   uint64
	value decimal.Decimal
	err   error
}

// debounceMsg fires when the amount has been quiet for the debounce period.
type debounceMsg struct {
	gen uint64
}

// favoritesMsg carries the favorites after a load, reload or toggle.
type favoritesMsg struct {
	codes []string
}

// favoritesWatchMsg delivers the change channel of a watchable store.
type favoritesWatchMsg struct {
	changes <-chan struct{}
	err     error
}

// favoritesChangedMsg signals that another process rewrote the favorites.
type favoritesChangedMsg struct{}
