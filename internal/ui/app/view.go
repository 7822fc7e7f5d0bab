// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/fxrun/internal/currency"
	"github.com/jeranaias/fxrun/internal/ui/styles"
)

// View renders the converter window.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderAmount(),
		m.from.View(),
		m.renderSwap(),
		m.to.View(),
	}
	if res := m.renderResult(); res != "" {
		sections = append(sections, res)
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.HeaderTitle.Render("fxrun")
	meta := t.HeaderMeta.Render("currency converter")
	header := title + "  " + meta
	if m.width > 0 {
		return t.Header.Width(m.width).Render(header)
	}
	return t.Header.Render(header)
}

func (m Model) renderAmount() string {
	t := m.theme

	style := t.Field
	switch {
	case m.ctrl.Disabled():
		style = t.FieldDisable
	case m.focus == FieldAmount:
		style = t.FieldFocused
	}

	input := m.amount.View()
	if sym := currency.Symbol(m.ctrl.From()); sym != "" && sym != m.ctrl.From() {
		input = t.Muted.Render(sym+" ") + input
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		t.Label.Render("Amount"),
		style.Render(input),
	)
}

func (m Model) renderSwap() string {
	t := m.theme
	hint := "[<->] swap (ctrl+x)"
	switch {
	case m.ctrl.Disabled():
		return t.SwapHint.Render(t.Muted.Render(hint))
	case m.focus == FieldSwap:
		return t.SwapHint.Render(t.ListSelected.Render(hint))
	}
	return t.SwapHint.Render(hint)
}

func (m Model) renderResult() string {
	res, ok := m.ctrl.Result()
	if !ok {
		return ""
	}
	t := m.theme

	amount := res.String()
	if sym := currency.Symbol(res.Request.To); sym != "" && sym != res.Request.To {
		amount = sym + " " + amount
	}
	return t.ResultBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		t.ResultAmount.Render(amount),
		t.ResultRate.Render(res.Describe()),
	))
}

func (m Model) renderStatus() string {
	var lines []string
	if m.spinner.IsActive() {
		lines = append(lines, m.spinner.View())
	}
	if n := m.ctrl.Notice().String(); n != "" {
		lines = append(lines, styles.RenderWarning(n))
	}
	if e := m.ctrl.Err(); e != "" {
		lines = append(lines, styles.RenderError(e))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	view := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		view = m.help.FullHelpView(m.keys.FullHelp())
	}
	return lipgloss.NewStyle().MarginTop(1).Render(view)
}
