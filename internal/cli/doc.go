// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the fxrun command line.
//
// Commands (google/subcommands):
//
//	fxrun                         Start the TUI (default on a terminal)
//	fxrun tui                     Start the TUI
//	fxrun convert 100 usd eur     One-shot conversion
//	fxrun currencies              List codes, names and symbols
//	fxrun favorites [toggle CODE] List or toggle favorites
//	fxrun repl                    Line-oriented converter
//	fxrun config [path|get|set]   Show or edit the configuration
//	fxrun version                 Print version information
//
// Global flags: -config PATH, -log-file PATH, -debug.
package cli
