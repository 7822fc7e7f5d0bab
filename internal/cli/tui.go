// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"flag"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"

	"github.com/jeranaias/fxrun/internal/ui/app"
	"github.com/jeranaias/fxrun/internal/ui/styles"
)

// ErrNoTerminal is returned when the TUI is started without a terminal.
var ErrNoTerminal = errors.New("the TUI needs an interactive terminal; try 'fxrun convert' or 'fxrun repl'")

type tuiCmd struct {
	g        *Globals
	noAlt    bool
	showHelp bool
}

func (*tuiCmd) Name() string     { return "tui" }
func (*tuiCmd) Synopsis() string { return "start the interactive converter (default)" }
func (*tuiCmd) Usage() string {
	return `fxrun tui [-no-alt-screen] [-help-keys]

  Opens the converter window: amount, From and To selectors with favorites
  listed first, a swap control and the live result.
`
}

func (c *tuiCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.noAlt, "no-alt-screen", false, "Render inline instead of using the alternate screen")
	f.BoolVar(&c.showHelp, "help-keys", false, "Start with the full key help expanded")
}

func (c *tuiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return ExitStatus(c.g.Err, RunTUI(ctx, c.g, c.noAlt, c.showHelp))
}

// RunTUI starts the Bubble Tea program and blocks until it exits.
func RunTUI(ctx context.Context, g *Globals, noAlt, showHelp bool) error {
	if !IsTTY() || !IsStdoutTTY() {
		return ErrNoTerminal
	}
	return withEnv(ctx, g, func(env *Env) error {
		model := app.New(app.Options{
			Source:    env.Rates,
			Favorites: env.Favorites,
			Converter: env.ConverterOptions(),
			Debounce:  env.Debounce(),
			Theme:     styles.NewTheme(env.Config.UI.Theme),
			Logger:    env.Logger,
			ShowHelp:  showHelp || env.Config.UI.ShowHelp,
			Context:   ctx,
		})

		opts := []tea.ProgramOption{tea.WithContext(ctx)}
		if !noAlt {
			opts = append(opts, tea.WithAltScreen())
		}
		if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return NewCommandError("tui", "run", err)
		}
		env.Logger.Info("SHUTDOWN")
		return nil
	})
}
