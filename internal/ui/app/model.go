// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Bubble Tea program for the converter window.
//
// The Model owns the widgets and performs all I/O as tea.Cmds. Conversion
// state lives in converter.Controller; the Model forwards user input to it
// and turns the fetches it asks for into commands.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fxrun/internal/converter"
	"github.com/jeranaias/fxrun/internal/favorites"
	"github.com/jeranaias/fxrun/internal/rates"
	"github.com/jeranaias/fxrun/internal/ui/components"
	"github.com/jeranaias/fxrun/internal/ui/styles"
)

// Selector ids.
const (
	FromID = "from"
	ToID   = "to"
)

// Field identifies the focused control.
type Field int

const (
	FieldAmount Field = iota
	FieldFrom
	FieldSwap
	FieldTo
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldAmount:
		return "amount"
	case FieldFrom:
		return "from"
	case FieldSwap:
		return "swap"
	case FieldTo:
		return "to"
	}
	return "unknown"
}

// Options configures New.
type Options struct {
	Source    rates.Source
	Favorites *favorites.Store
	Converter converter.Options

	// Debounce is the quiet period after the last amount edit.
	Debounce time.Duration

	Theme    *styles.Theme
	Logger   *slog.Logger
	ShowHelp bool

	// Context bounds every request; it is cancelled on quit.
	Context context.Context
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the converter window.
type Model struct {
	ctrl *converter.Controller
	src  rates.Source
	favs *favorites.Store

	amount  textinput.Model
	from    *components.Selector
	to      *components.Selector
	spinner components.Spinner
	help    help.Model

	focus    Field
	keys     KeyMap
	showHelp bool

	favorites []string
	changes   <-chan struct{}
	debounce  time.Duration

	theme  *styles.Theme
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	quitting bool
}

// New creates the model in the loading state.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	convOpts := opts.Converter
	if convOpts.Logger == nil {
		convOpts.Logger = logger
	}
	ctrl := converter.New(convOpts)

	amount := textinput.New()
	amount.Prompt = ""
	amount.Placeholder = "Amount"
	amount.CharLimit = 24
	amount.Width = 24
	amount.PromptStyle = theme.InputPrompt
	amount.TextStyle = theme.InputText
	amount.PlaceholderStyle = theme.Placeholder
	amount.Cursor.SetMode(cursor.CursorStatic)
	amount.SetValue(ctrl.AmountText())
	amount.Focus()

	from := components.NewSelector(FromID, "From", theme)
	to := components.NewSelector(ToID, "To", theme)

	spin := components.NewSpinner()
	spin.SetMessage("Loading currencies")
	spin.SetShowTimer(false)
	spin.Start()

	m := Model{
		ctrl:     ctrl,
		src:      opts.Source,
		favs:     opts.Favorites,
		amount:   amount,
		from:     from,
		to:       to,
		spinner:  spin,
		help:     help.New(),
		focus:    FieldAmount,
		keys:     DefaultKeyMap(),
		showHelp: opts.ShowHelp,
		debounce: opts.Debounce,
		theme:    theme,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	m.sync()
	return m
}

// Init starts the list fetch, the favorites load and the spinner.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		fetchCurrenciesCmd(m.ctx, m.src),
		m.spinner.Tick,
	}
	if m.favs != nil {
		cmds = append(cmds,
			loadFavoritesCmd(m.ctx, m.favs),
			watchFavoritesCmd(m.ctx, m.favs),
		)
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// STATE SYNC
// =============================================================================

// sync pushes controller state into the widgets.
func (m *Model) sync() {
	disabled := m.ctrl.Disabled()

	m.from.SetSelected(m.ctrl.From())
	m.to.SetSelected(m.ctrl.To())
	m.from.SetDisabled(disabled)
	m.to.SetDisabled(disabled)

	if disabled && m.amount.Value() != m.ctrl.AmountText() {
		m.amount.SetValue(m.ctrl.AmountText())
	}
}

// after applies a controller transition: it syncs the widgets, starts the
// fetch when one is due and keeps the spinner in step with the phase.
func (m *Model) after(f converter.Fetch, fetch bool) tea.Cmd {
	m.sync()

	var cmds []tea.Cmd
	if fetch {
		cmds = append(cmds, fetchRateCmd(m.ctx, m.src, f))
	}

	switch m.ctrl.Phase() {
	case converter.PhaseLoading:
		m.spinner.SetMessage("Loading currencies")
		cmds = append(cmds, m.spinner.Start())
	case converter.PhaseConverting:
		m.spinner.SetMessage("Converting")
		cmds = append(cmds, m.spinner.Start())
	default:
		m.spinner.Stop()
	}
	return tea.Batch(cmds...)
}

func (m *Model) focused() *components.Selector {
	switch m.focus {
	case FieldFrom:
		return m.from
	case FieldTo:
		return m.to
	}
	return nil
}

func (m *Model) setFocus(f Field) {
	m.focus = (f + fieldCount) % fieldCount
	m.amount.Blur()
	m.from.Blur()
	m.to.Blur()
	switch m.focus {
	case FieldAmount:
		m.amount.Focus()
	case FieldFrom:
		m.from.Focus()
	case FieldTo:
		m.to.Focus()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Controller exposes the conversion state.
func (m Model) Controller() *converter.Controller { return m.ctrl }

// Focus returns the focused control.
func (m Model) Focus() Field { return m.focus }

// Favorites returns the favorites currently shown.
func (m Model) Favorites() []string { return m.favorites }

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool { return m.quitting }
