// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/fxrun/internal/currency"
	"github.com/jeranaias/fxrun/internal/ui/components"
)

type currenciesCmd struct {
	g              *Globals
	favoritesFirst bool
	plain          bool
}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "list supported currencies" }
func (*currenciesCmd) Usage() string {
	return `fxrun currencies [-favorites-first] [-plain] [FILTER]

  Lists the codes the rate service supports with their names and symbols.
  Favorites are marked with *. FILTER keeps codes containing it.
`
}

func (c *currenciesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.favoritesFirst, "favorites-first", false, "List favorites before the other codes")
	f.BoolVar(&c.plain, "plain", false, "Plain columns instead of a rendered table")
}

func (c *currenciesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter := strings.Join(f.Args(), " ")
	err := withEnv(ctx, c.g, func(env *Env) error {
		names, err := env.Rates.Currencies(ctx)
		if err != nil {
			return NewCommandError("currencies", "fetch list", err)
		}
		rows := currencyRows(names, env.Favorites.List(), filter, c.favoritesFirst)
		if c.plain || !IsStdoutTTY() {
			writePlainTable(c.g.Out, rows)
			return nil
		}
		return writeMarkdownTable(c.g.Out, rows)
	})
	return ExitStatus(c.g.Err, err)
}

// currencyRow is one line of the currencies table.
type currencyRow struct {
	Code     string
	Name     string
	Symbol   string
	Favorite bool
}

// currencyRows orders the list alphabetically, or favorites first, and
// applies the same filter as the TUI selector.
func currencyRows(names map[string]string, favs []string, filter string, favoritesFirst bool) []currencyRow {
	groups := components.Partition(currency.Sorted(names), favs, filter)

	isFav := make(map[string]bool, len(groups.Favorites))
	for _, code := range groups.Favorites {
		isFav[code] = true
	}

	var codes []string
	if favoritesFirst {
		codes = groups.All()
	} else {
		for _, code := range currency.Sorted(names) {
			if groups.Index(code) >= 0 {
				codes = append(codes, code)
			}
		}
	}

	rows := make([]currencyRow, 0, len(codes))
	for _, code := range codes {
		sym := currency.Symbol(code)
		if sym == code {
			sym = ""
		}
		rows = append(rows, currencyRow{
			Code:     code,
			Name:     names[code],
			Symbol:   sym,
			Favorite: isFav[code],
		})
	}
	return rows
}

func markdownTable(rows []currencyRow) string {
	var b strings.Builder
	b.WriteString("| | Code | Name | Symbol |\n|---|---|---|---|\n")
	for _, r := range rows {
		star := ""
		if r.Favorite {
			star = "*"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", star, r.Code, escapeCell(r.Name), escapeCell(r.Symbol))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// writeMarkdownTable renders the table with glamour, falling back to the
// plain layout when rendering fails.
func writeMarkdownTable(w io.Writer, rows []currencyRow) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		writePlainTable(w, rows)
		return nil
	}
	out, err := renderer.Render(markdownTable(rows))
	if err != nil {
		writePlainTable(w, rows)
		return nil
	}
	_, err = io.WriteString(w, out)
	return err
}

// writePlainTable writes aligned columns. Widths are measured in terminal
// cells so wide symbols line up.
func writePlainTable(w io.Writer, rows []currencyRow) {
	nameWidth := 4
	for _, r := range rows {
		if n := runewidth.StringWidth(r.Name); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 40 {
		nameWidth = 40
	}

	for _, r := range rows {
		star := " "
		if r.Favorite {
			star = "*"
		}
		name := runewidth.FillRight(runewidth.Truncate(r.Name, nameWidth, "..."), nameWidth)
		line := fmt.Sprintf("%s %s  %s  %s", star, runewidth.FillRight(r.Code, 4), name, r.Symbol)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
