// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// FIELDS
	// ==========================================================================

	Label        lipgloss.Style
	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	FieldDisable lipgloss.Style
	InputPrompt  lipgloss.Style
	InputText    lipgloss.Style
	Placeholder  lipgloss.Style

	// ==========================================================================
	// SELECTOR LIST
	// ==========================================================================

	ListBox      lipgloss.Style
	ListGroup    lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListCode     lipgloss.Style
	ListName     lipgloss.Style
	Star         lipgloss.Style

	// ==========================================================================
	// RESULT
	// ==========================================================================

	ResultBox    lipgloss.Style
	ResultAmount lipgloss.Style
	ResultRate   lipgloss.Style
	SwapHint     lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	Spinner lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme creates a theme for the terminal it runs in. mode is "auto",
// "dark" or "light"; anything but dark/light detects the background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1).
		MarginBottom(1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(8)

	t.Field = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.FieldFocused = t.Field.
		BorderForeground(FocusRing)

	t.FieldDisable = t.Field.
		Foreground(TextMuted)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ListBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.ListGroup = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ListSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.ListCode = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ListName = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Star = lipgloss.NewStyle().
		Foreground(Amber)

	t.ResultBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Emerald).
		PaddingLeft(1).
		MarginTop(1)

	t.ResultAmount = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ResultRate = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SwapHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
