// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fxrun/internal/converter"
	"github.com/jeranaias/fxrun/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case currenciesMsg:
		return m.handleCurrencies(msg)

	case rateMsg:
		return m.handleRate(msg)

	case debounceMsg:
		f, ok := m.ctrl.SettleAmount(msg.gen)
		return m, m.after(f, ok)

	case components.SelectedMsg:
		return m.handleSelected(msg)

	case components.ToggleFavoriteMsg:
		if m.favs == nil {
			return m, nil
		}
		return m, toggleFavoriteCmd(m.ctx, m.favs, msg.Code)

	case favoritesMsg:
		m.favorites = msg.codes
		m.from.SetFavorites(msg.codes)
		m.to.SetFavorites(msg.codes)
		return m, nil

	case favoritesWatchMsg:
		if msg.err != nil {
			m.logger.Warn("FAVORITES_WATCH_FAILED", "error", msg.err)
			return m, nil
		}
		m.changes = msg.changes
		return m, waitForFavoritesCmd(m.changes)

	case favoritesChangedMsg:
		return m, tea.Batch(
			reloadFavoritesCmd(m.ctx, m.favs),
			waitForFavoritesCmd(m.changes),
		)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == FieldAmount {
		var cmd tea.Cmd
		m.amount, cmd = m.amount.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.help.Width = msg.Width

	fieldWidth := msg.Width - 12
	if fieldWidth > 48 {
		fieldWidth = 48
	}
	m.from.SetWidth(fieldWidth)
	m.to.SetWidth(fieldWidth)
	return m, nil
}

func (m Model) handleCurrencies(msg currenciesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.ctrl.CurrenciesFailed(msg.err)
		return m, m.after(converter.Fetch{}, false)
	}
	f, ok := m.ctrl.CurrenciesLoaded(msg.names)
	codes := m.ctrl.Codes()
	m.from.SetCodes(codes, m.ctrl.Names())
	m.to.SetCodes(codes, m.ctrl.Names())
	return m, m.after(f, ok)
}

func (m Model) handleRate(msg rateMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.ctrl.ConversionFailed(msg.seq, msg.err)
	} else {
		m.ctrl.ConversionSucceeded(msg.seq, msg.value)
	}
	return m, m.after(converter.Fetch{}, false)
}

func (m Model) handleSelected(msg components.SelectedMsg) (tea.Model, tea.Cmd) {
	var (
		f  converter.Fetch
		ok bool
	)
	switch msg.ID {
	case FromID:
		f, ok = m.ctrl.SetFrom(msg.Code)
	case ToID:
		f, ok = m.ctrl.SetTo(msg.Code)
	default:
		return m, nil
	}
	return m, m.after(f, ok)
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}

	// An open list owns the keyboard until it closes.
	if sel := m.focused(); sel != nil && sel.IsOpen() {
		_, cmd := sel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.setFocus(m.focus + 1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
		return m, nil

	case key.Matches(msg, m.keys.Swap):
		return m.swap()

	case key.Matches(msg, m.keys.Retry):
		return m.retry()

	case key.Matches(msg, m.keys.Help) && (m.focus != FieldAmount || msg.String() == "f1"):
		m.showHelp = !m.showHelp
		return m, nil
	}

	switch m.focus {
	case FieldAmount:
		return m.handleAmountKey(msg)

	case FieldSwap:
		if key.Matches(msg, m.keys.Submit) || msg.String() == " " {
			return m.swap()
		}
		return m, nil

	default:
		_, cmd := m.focused().Update(msg)
		return m, cmd
	}
}

func (m Model) handleAmountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.Disabled() {
		return m, nil
	}

	if key.Matches(msg, m.keys.Submit) {
		f, ok := m.ctrl.SetAmount(m.amount.Value())
		return m, m.after(f, ok)
	}

	previous := m.amount.Value()
	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	if m.amount.Value() == previous {
		return m, cmd
	}

	gen, ok := m.ctrl.EditAmount(m.amount.Value())
	if !ok {
		return m, cmd
	}
	return m, tea.Batch(cmd, debounceCmd(m.debounce, gen))
}

func (m Model) swap() (tea.Model, tea.Cmd) {
	f, ok := m.ctrl.Swap()
	return m, m.after(f, ok)
}

// retry reloads the list after a list failure, or repeats the conversion
// after a conversion failure.
func (m Model) retry() (tea.Model, tea.Cmd) {
	if m.ctrl.Retry() {
		return m, tea.Batch(m.after(converter.Fetch{}, false), fetchCurrenciesCmd(m.ctx, m.src))
	}
	if m.ctrl.Err() != "" && !m.ctrl.Disabled() {
		f, ok := m.ctrl.SetAmount(m.amount.Value())
		return m, m.after(f, ok)
	}
	return m, nil
}
