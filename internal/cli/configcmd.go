// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jeranaias/fxrun/internal/config"
)

type configCmd struct {
	g *Globals
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "show or edit the configuration" }
func (*configCmd) Usage() string {
	return `fxrun config                 Print the effective configuration as TOML
fxrun config path            Print the config file path
fxrun config get KEY         Print one value (e.g. converter.default_from)
fxrun config set KEY VALUE   Change one value and save

  Keys use dot notation matching the TOML names.
`
}

func (*configCmd) SetFlags(*flag.FlagSet) {}

func (c *configCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return ExitStatus(c.g.Err, c.run(f.Args()))
}

func (c *configCmd) run(args []string) error {
	if len(args) == 1 && args[0] == "path" {
		path, err := c.path()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.g.Out, path)
		return nil
	}

	if len(args) == 3 && args[0] == "set" {
		return c.set(args[1], args[2])
	}

	cfg, err := c.g.LoadConfig()
	if err != nil {
		return NewCommandError("config", "load", err)
	}

	switch {
	case len(args) == 0:
		fmt.Fprint(c.g.Out, cfg.String())
		return nil

	case args[0] == "get" && len(args) == 2:
		v, err := cfg.Get(args[1])
		if err != nil {
			return &UsageError{Reason: err.Error(), Example: "fxrun config get store.backend"}
		}
		fmt.Fprintln(c.g.Out, v)
		return nil
	}

	return &UsageError{Reason: "unknown config arguments", Example: "fxrun config get api.base_url"}
}

// set changes one key in the config file. Only the file's own contents are
// written back; environment overrides and derived paths stay out of it.
func (c *configCmd) set(key, value string) error {
	path, err := c.path()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return NewCommandError("config", "load", err)
	}
	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Reason: err.Error(), Example: "fxrun config set store.backend sqlite"}
	}

	check := cfg.Clone()
	check.SetDefaults()
	if err := check.Validate(); err != nil {
		return NewCommandError("config", "set "+key, err)
	}
	if err := config.SaveFile(cfg, path); err != nil {
		return NewCommandError("config", "save", err)
	}
	fmt.Fprintf(c.g.Out, "%s = %v\n", key, value)
	return nil
}

// path is the file -config names, or the one Load would read.
func (c *configCmd) path() (string, error) {
	if c.g.ConfigPath != "" {
		return c.g.ConfigPath, nil
	}
	return config.ActivePath()
}
