// fxrun - a terminal currency converter.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"github.com/jeranaias/fxrun/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version, cli.GitCommit, cli.BuildDate = Version, GitCommit, BuildDate

	globals := cli.NewGlobals()
	globals.SetFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander, globals)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := run(ctx, commander, globals)
	stop()
	os.Exit(int(status))
}

// run starts the TUI when no command is given on a terminal, otherwise it
// dispatches to the named command.
func run(ctx context.Context, commander *subcommands.Commander, globals *cli.Globals) subcommands.ExitStatus {
	if flag.NArg() == 0 && cli.IsTTY() && cli.IsStdoutTTY() {
		return cli.ExitStatus(globals.Err, cli.RunTUI(ctx, globals, false, false))
	}
	return commander.Execute(ctx)
}
