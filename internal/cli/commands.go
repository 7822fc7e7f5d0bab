// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// Commands returns every fxrun command bound to g.
func Commands(g *Globals) []subcommands.Command {
	return []subcommands.Command{
		&tuiCmd{g: g},
		&convertCmd{g: g},
		&currenciesCmd{g: g},
		&favoritesCmd{g: g},
		&replCmd{g: g},
		&configCmd{g: g},
		&versionCmd{g: g},
	}
}

// Register adds the fxrun commands and the builtin help commands to c.
func Register(c *subcommands.Commander, g *Globals) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	for _, cmd := range Commands(g) {
		c.Register(cmd, "")
	}
}

// =============================================================================
// VERSION
// =============================================================================

type versionCmd struct {
	g *Globals
}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print version information" }
func (*versionCmd) Usage() string {
	return `fxrun version
`
}

func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (c *versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(c.g.Out, "fxrun %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	return subcommands.ExitSuccess
}
