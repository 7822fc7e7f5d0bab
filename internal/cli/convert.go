// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jeranaias/fxrun/internal/converter"
	"github.com/jeranaias/fxrun/internal/currency"
	"github.com/jeranaias/fxrun/internal/rates"
)

const convertExample = "fxrun convert 100 usd eur"

type convertCmd struct {
	g     *Globals
	quiet bool
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount once and print the result" }
func (*convertCmd) Usage() string {
	return `fxrun convert [-q] AMOUNT FROM TO

  Converts AMOUNT of FROM into TO using the latest rate and prints the
  converted amount and the implied unit rate. Codes are case-insensitive.
  Commas in AMOUNT are ignored.

  -q prints only the converted number.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quiet, "q", false, "Print only the converted number")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := parseConvertArgs(f.Args())
	if err != nil {
		return ExitStatus(c.g.Err, err)
	}
	err = withEnv(ctx, c.g, func(env *Env) error {
		res, err := Convert(ctx, env.Rates, req, env.QuoteMode())
		if err != nil {
			return err
		}
		if c.quiet {
			fmt.Fprintln(c.g.Out, res.Converted.StringFixed(2))
			return nil
		}
		fmt.Fprintln(c.g.Out, describe(res))
		return nil
	})
	return ExitStatus(c.g.Err, err)
}

// parseConvertArgs validates AMOUNT FROM TO the way the converter does.
func parseConvertArgs(args []string) (currency.Request, error) {
	if len(args) != 3 {
		return currency.Request{}, &UsageError{
			Reason:  fmt.Sprintf("convert takes AMOUNT FROM TO, got %d argument(s)", len(args)),
			Example: convertExample,
		}
	}
	req := currency.Request{
		From: currency.Normalize(args[1]),
		To:   currency.Normalize(args[2]),
	}
	if amount, err := currency.ParseAmount(args[0]); err == nil {
		req.Amount = amount
	}
	switch err := req.Validate(); {
	case err == nil:
		return req, nil
	case errors.Is(err, currency.ErrSameCurrency):
		return req, &UsageError{Reason: converter.MsgSameCurrency, Example: convertExample}
	case errors.Is(err, currency.ErrInvalidAmount):
		return req, &UsageError{Reason: converter.MsgInvalidAmount, Example: convertExample}
	default:
		return req, &UsageError{Reason: err.Error(), Example: convertExample}
	}
}

// Convert fetches the rate for req and derives the displayed result.
func Convert(ctx context.Context, src rates.Source, req currency.Request, mode currency.QuoteMode) (currency.Result, error) {
	value, err := src.Latest(ctx, req.Amount, req.From, req.To)
	if err != nil {
		return currency.Result{}, NewCommandError("convert", "fetch rate "+req.String(), err)
	}
	return currency.Derive(req, value, mode), nil
}
