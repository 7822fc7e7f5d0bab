// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"

	"github.com/jeranaias/fxrun/internal/currency"
	"github.com/jeranaias/fxrun/internal/ui/styles"
)

// =============================================================================
// PARTITION
// =============================================================================

// Groups is the selector list split into favorites and everything else,
// each sorted alphabetically.
type Groups struct {
	Favorites []string
	Others    []string
}

// Len returns the number of codes in both groups.
func (g Groups) Len() int {
	return len(g.Favorites) + len(g.Others)
}

// All returns favorites followed by the others.
func (g Groups) All() []string {
	all := make([]string, 0, g.Len())
	all = append(all, g.Favorites...)
	return append(all, g.Others...)
}

// At returns the code at index i of All.
func (g Groups) At(i int) string {
	if i < len(g.Favorites) {
		return g.Favorites[i]
	}
	return g.Others[i-len(g.Favorites)]
}

// Index returns the position of code in All, or -1.
func (g Groups) Index(code string) int {
	for i, c := range g.Favorites {
		if c == code {
			return i
		}
	}
	for i, c := range g.Others {
		if c == code {
			return len(g.Favorites) + i
		}
	}
	return -1
}

// Partition splits codes into favorites (codes also in favorites) and the
// rest, keeping only codes whose text contains filter under Unicode case
// folding. Favorites that are not in codes are ignored.
func Partition(codes, favorites []string, filter string) Groups {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(filter))

	fav := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		fav[currency.Normalize(f)] = true
	}

	var g Groups
	for _, code := range codes {
		if needle != "" && !strings.Contains(fold.String(code), needle) {
			continue
		}
		if fav[code] {
			g.Favorites = append(g.Favorites, code)
		} else {
			g.Others = append(g.Others, code)
		}
	}
	sort.Strings(g.Favorites)
	sort.Strings(g.Others)
	return g
}

// =============================================================================
// KEYS
// =============================================================================

// SelectorKeyMap defines the selector bindings.
type SelectorKeyMap struct {
	Open   key.Binding
	Up     key.Binding
	Down   key.Binding
	Commit key.Binding
	Cancel key.Binding
	Star   key.Binding
}

// DefaultSelectorKeyMap returns the default selector bindings.
func DefaultSelectorKeyMap() SelectorKeyMap {
	return SelectorKeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", " ", "down"),
			key.WithHelp("enter/space", "open list"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("up", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "next"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Star: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle favorite"),
		),
	}
}

// =============================================================================
// SELECTOR
// =============================================================================

// Selector is a searchable currency dropdown. It owns only widget state;
// the selected code, the favorites and the disabled flag are set by the
// parent, and choices come back as SelectedMsg and ToggleFavoriteMsg.
type Selector struct {
	id    string
	label string
	keys  SelectorKeyMap
	theme *styles.Theme

	input textinput.Model

	codes     []string
	names     map[string]string
	favorites []string
	selected  string
	disabled  bool

	focused bool
	open    bool
	groups  Groups
	cursor  int

	width    int
	maxItems int
}

// NewSelector creates a selector. id is echoed in its messages so a parent
// with several selectors can tell them apart.
func NewSelector(id, label string, theme *styles.Theme) *Selector {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = "/ "
	ti.CharLimit = 16
	ti.Width = 20
	ti.Cursor.SetMode(cursor.CursorStatic)
	if theme != nil {
		ti.PromptStyle = theme.InputPrompt
		ti.TextStyle = theme.InputText
		ti.PlaceholderStyle = theme.Placeholder
	}

	return &Selector{
		id:       id,
		label:    label,
		keys:     DefaultSelectorKeyMap(),
		theme:    theme,
		input:    ti,
		width:    40,
		maxItems: 8,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the selector.
func (s *Selector) Init() tea.Cmd {
	return nil
}

// Update handles key messages while the selector is focused.
func (s *Selector) Update(msg tea.Msg) (*Selector, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	keyMsg, isKey := msg.(tea.KeyMsg)

	if !s.open {
		if !isKey {
			return s, nil
		}
		switch {
		case key.Matches(keyMsg, s.keys.Star):
			return s, s.toggleFavorite(s.selected)
		case key.Matches(keyMsg, s.keys.Open):
			s.Open()
		}
		return s, nil
	}

	if isKey {
		switch {
		case key.Matches(keyMsg, s.keys.Cancel):
			s.Close()
			return s, nil

		case key.Matches(keyMsg, s.keys.Commit):
			return s, s.commit()

		case key.Matches(keyMsg, s.keys.Up):
			s.move(-1)
			return s, nil

		case key.Matches(keyMsg, s.keys.Down):
			s.move(1)
			return s, nil

		case key.Matches(keyMsg, s.keys.Star):
			if s.groups.Len() == 0 {
				return s, nil
			}
			return s, s.toggleFavorite(s.groups.At(s.cursor))
		}
	}

	previous := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != previous {
		s.refilter("")
	}
	return s, cmd
}

func (s *Selector) move(delta int) {
	n := s.groups.Len()
	if n == 0 {
		return
	}
	s.cursor = (s.cursor + delta + n) % n
}

func (s *Selector) commit() tea.Cmd {
	if s.disabled || s.groups.Len() == 0 {
		return nil
	}
	code := s.groups.At(s.cursor)
	s.Close()
	id := s.id
	return func() tea.Msg {
		return SelectedMsg{ID: id, Code: code}
	}
}

func (s *Selector) toggleFavorite(code string) tea.Cmd {
	if code == "" {
		return nil
	}
	id := s.id
	return func() tea.Msg {
		return ToggleFavoriteMsg{ID: id, Code: code}
	}
}

// refilter recomputes the groups and puts the cursor on keep when it is
// still listed, otherwise on the first entry.
func (s *Selector) refilter(keep string) {
	s.groups = Partition(s.codes, s.favorites, s.input.Value())
	s.cursor = 0
	if keep != "" {
		if i := s.groups.Index(keep); i >= 0 {
			s.cursor = i
		}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the closed field, or the field plus the list when open.
func (s *Selector) View() string {
	t := s.theme
	if t == nil {
		t = styles.NewTheme("auto")
		s.theme = t
	}

	fieldStyle := t.Field
	switch {
	case s.disabled:
		fieldStyle = t.FieldDisable
	case s.focused:
		fieldStyle = t.FieldFocused
	}

	value := t.Muted.Render("-")
	if s.selected != "" {
		value = s.renderEntry(s.selected, s.width-6)
	}
	field := lipgloss.JoinHorizontal(lipgloss.Center,
		t.Label.Render(s.label),
		fieldStyle.Width(s.width).Render(value),
	)
	if !s.open {
		return field
	}
	return lipgloss.JoinVertical(lipgloss.Left, field, s.renderList())
}

func (s *Selector) renderList() string {
	t := s.theme
	width := s.width

	lines := []string{s.input.View()}

	n := s.groups.Len()
	if n == 0 {
		lines = append(lines, t.Muted.Italic(true).Render("No matching currencies"))
		return t.ListBox.Width(width).MarginLeft(8).Render(strings.Join(lines, "\n"))
	}

	start := 0
	if s.cursor >= s.maxItems {
		start = s.cursor - s.maxItems + 1
	}
	end := start + s.maxItems
	if end > n {
		end = n
	}

	favCount := len(s.groups.Favorites)
	for i := start; i < end; i++ {
		switch {
		case i < favCount && (i == 0 || i == start):
			lines = append(lines, t.ListGroup.Render("Favorites"))
		case i >= favCount && (i == favCount || i == start):
			lines = append(lines, t.ListGroup.Render("All currencies"))
		}

		code := s.groups.At(i)
		row := s.renderEntry(code, width-6)
		if i == s.cursor {
			lines = append(lines, t.ListSelected.Width(width-4).Render("> "+row))
		} else {
			lines = append(lines, t.ListItem.Render("  "+row))
		}
	}
	if end < n {
		lines = append(lines, t.Muted.Italic(true).Render(fmt.Sprintf("  ... %d more", n-end)))
	}

	return t.ListBox.Width(width).MarginLeft(8).Render(strings.Join(lines, "\n"))
}

// renderEntry renders "* EUR  Euro (current)" fitted to width cells.
func (s *Selector) renderEntry(code string, width int) string {
	t := s.theme

	star := " "
	if s.isFavorite(code) {
		star = t.Star.Render("*")
	}

	name := ""
	if s.names != nil {
		name = s.names[code]
	}
	suffix := ""
	if code == s.selected && s.open {
		suffix = " (current)"
	}

	codeCell := runewidth.FillRight(code, 4)
	nameWidth := width - 2 - runewidth.StringWidth(codeCell) - runewidth.StringWidth(suffix)
	if nameWidth < 0 {
		nameWidth = 0
	}
	name = runewidth.Truncate(name, nameWidth, "...")

	return star + " " + t.ListCode.Render(codeCell) + t.ListName.Render(name) + t.Muted.Render(suffix)
}

func (s *Selector) isFavorite(code string) bool {
	for _, f := range s.favorites {
		if f == code {
			return true
		}
	}
	return false
}

// =============================================================================
// PUBLIC METHODS
// =============================================================================

// Open shows the list with the cursor on the current selection. It does
// nothing while disabled.
func (s *Selector) Open() {
	if s.disabled || s.open {
		return
	}
	s.open = true
	s.input.Reset()
	s.input.Focus()
	s.refilter(s.selected)
}

// Close hides the list without changing the selection.
func (s *Selector) Close() {
	s.open = false
	s.input.Reset()
	s.input.Blur()
}

// Focus gives the selector keyboard focus.
func (s *Selector) Focus() {
	s.focused = true
}

// Blur removes focus. An open list is cancelled.
func (s *Selector) Blur() {
	s.focused = false
	if s.open {
		s.Close()
	}
}

// SetCodes replaces the available codes and their display names.
func (s *Selector) SetCodes(codes []string, names map[string]string) {
	s.codes = codes
	s.names = names
	if s.open {
		s.refilter(s.Highlighted())
	}
}

// SetFavorites replaces the favorites. An open list keeps its highlight.
func (s *Selector) SetFavorites(favorites []string) {
	s.favorites = favorites
	if s.open {
		s.refilter(s.Highlighted())
	}
}

// SetSelected sets the current code.
func (s *Selector) SetSelected(code string) {
	s.selected = code
}

// SetDisabled enables or disables opening and committing.
func (s *Selector) SetDisabled(disabled bool) {
	s.disabled = disabled
}

// SetWidth sets the field width in cells.
func (s *Selector) SetWidth(width int) {
	if width >= 20 {
		s.width = width
	}
}

// Highlighted returns the code under the cursor, or "" when the list is
// closed or empty.
func (s *Selector) Highlighted() string {
	if !s.open || s.groups.Len() == 0 {
		return ""
	}
	return s.groups.At(s.cursor)
}

func (s *Selector) Selected() string { return s.selected }
func (s *Selector) IsOpen() bool     { return s.open }
func (s *Selector) Groups() Groups   { return s.groups }
func (s *Selector) Filter() string   { return s.input.Value() }

// =============================================================================
// MESSAGES
// =============================================================================

// SelectedMsg is sent when the user commits a code.
type SelectedMsg struct {
	ID   string
	Code string
}

// ToggleFavoriteMsg is sent when the user stars or unstars a code.
type ToggleFavoriteMsg struct {
	ID   string
	Code string
}
