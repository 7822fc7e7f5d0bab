// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fxrun/internal/converter"
	"github.com/jeranaias/fxrun/internal/favorites"
	"github.com/jeranaias/fxrun/internal/rates"
)

// fetchCurrenciesCmd loads the code -> name map.
func fetchCurrenciesCmd(ctx context.Context, src rates.Source) tea.Cmd {
	return func() tea.Msg {
		names, err := src.Currencies(ctx)
		return currenciesMsg{names: names, err: err}
	}
}

// fetchRateCmd performs f. The reply carries f.Seq so stale replies can be
// told apart.
func fetchRateCmd(ctx context.Context, src rates.Source, f converter.Fetch) tea.Cmd {
	return func() tea.Msg {
		value, err := src.Latest(ctx, f.Request.Amount, f.Request.From, f.Request.To)
		return rateMsg{seq: f.Seq, value: value, err: err}
	}
}

// debounceCmd fires debounceMsg{gen} after d.
func debounceCmd(d time.Duration, gen uint64) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return debounceMsg{gen: gen} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	})
}

func loadFavoritesCmd(ctx context.Context, favs *favorites.Store) tea.Cmd {
	return func() tea.Msg {
		return favoritesMsg{codes: favs.Load(ctx)}
	}
}

func reloadFavoritesCmd(ctx context.Context, favs *favorites.Store) tea.Cmd {
	return func() tea.Msg {
		favs.Reload(ctx)
		return favoritesMsg{codes: favs.List()}
	}
}

func toggleFavoriteCmd(ctx context.Context, favs *favorites.Store, code string) tea.Cmd {
	return func() tea.Msg {
		return favoritesMsg{codes: favs.Toggle(ctx, code)}
	}
}

// watchFavoritesCmd subscribes to backend changes. It yields nothing when
// the backend cannot be watched.
func watchFavoritesCmd(ctx context.Context, favs *favorites.Store) tea.Cmd {
	return func() tea.Msg {
		changes, ok, err := favs.Watch(ctx)
		if !ok {
			return nil
		}
		return favoritesWatchMsg{changes: changes, err: err}
	}
}

// waitForFavoritesCmd blocks until the next change signal.
func waitForFavoritesCmd(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, open := <-changes; !open {
			return nil
		}
		return favoritesChangedMsg{}
	}
}
