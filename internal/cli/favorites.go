// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"github.com/jeranaias/fxrun/internal/currency"
	"github.com/jeranaias/fxrun/internal/favorites"
)

type favoritesCmd struct {
	g *Globals
}

func (*favoritesCmd) Name() string     { return "favorites" }
func (*favoritesCmd) Synopsis() string { return "list or toggle favorite currencies" }
func (*favoritesCmd) Usage() string {
	return `fxrun favorites
fxrun favorites toggle CODE [CODE...]

  Without arguments, prints the favorites in the order they were added.
  toggle adds each CODE that is not a favorite and removes each that is.
`
}

func (*favoritesCmd) SetFlags(*flag.FlagSet) {}

func (c *favoritesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	var codes []string
	switch {
	case len(args) == 0:
	case args[0] == "toggle" && len(args) > 1:
		for _, arg := range args[1:] {
			code, err := parseCode(arg)
			if err != nil {
				return ExitStatus(c.g.Err, err)
			}
			codes = append(codes, code)
		}
	default:
		return ExitStatus(c.g.Err, &UsageError{
			Reason:  "unknown favorites arguments: " + strings.Join(args, " "),
			Example: "fxrun favorites toggle JPY",
		})
	}

	err := withEnv(ctx, c.g, func(env *Env) error {
		for _, code := range codes {
			if err := toggleAndReport(ctx, c.g.Out, env.Favorites, code); err != nil {
				return err
			}
		}
		printFavorites(c.g.Out, env.Favorites.List())
		return nil
	})
	return ExitStatus(c.g.Err, err)
}

// parseCode normalizes a currency code typed by the user.
func parseCode(s string) (string, error) {
	code := currency.Normalize(s)
	if len(code) != 3 || strings.IndexFunc(code, func(r rune) bool { return r < 'A' || r > 'Z' }) >= 0 {
		return "", &UsageError{Reason: fmt.Sprintf("%q is not a three-letter currency code", s)}
	}
	return code, nil
}

// toggleAndReport toggles code and prints what changed. A persist failure
// is returned and nothing is printed.
func toggleAndReport(ctx context.Context, w io.Writer, favs *favorites.Store, code string) error {
	verb := "added"
	if favs.Contains(code) {
		verb = "removed"
	}
	if _, err := favs.ToggleErr(ctx, code); err != nil {
		return NewCommandError("favorites", "toggle "+code, err)
	}
	fmt.Fprintf(w, "%s %s\n", verb, code)
	return nil
}

func printFavorites(w io.Writer, codes []string) {
	if len(codes) == 0 {
		fmt.Fprintln(w, DimStyle.Render("no favorites"))
		return
	}
	for _, code := range codes {
		sym := currency.Symbol(code)
		if sym == code {
			fmt.Fprintf(w, "* %s\n", code)
			continue
		}
		fmt.Fprintf(w, "* %s  %s\n", code, sym)
	}
}
