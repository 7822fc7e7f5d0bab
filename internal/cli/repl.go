// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/subcommands"
	"github.com/peterh/liner"

	"github.com/jeranaias/fxrun/internal/config"
	"github.com/jeranaias/fxrun/internal/converter"
	"github.com/jeranaias/fxrun/internal/favorites"
	"github.com/jeranaias/fxrun/internal/rates"
	"github.com/jeranaias/fxrun/internal/ui/components"
)

const replHelp = `  100 usd eur     convert 100 USD to EUR (also "100 usd to eur")
  250             change the amount, keep the pair
  from GBP        change the source currency
  to JPY          change the target currency
  swap            swap source and target
  fav JPY [...]   star or unstar currencies
  favs            list favorites
  list [FILTER]   list currencies, favorites first
  help            show this help
  quit            leave (also ctrl+d)
`

var replCommands = []string{"from", "to", "swap", "fav", "favs", "list", "help", "quit"}

type replCmd struct {
	g *Globals
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "interactive line-oriented converter" }
func (*replCmd) Usage() string {
	return "fxrun repl\n\n" + replHelp
}

func (*replCmd) SetFlags(*flag.FlagSet) {}

func (c *replCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withEnv(ctx, c.g, func(env *Env) error {
		session, err := NewSession(ctx, env.Rates, env.Favorites, env.ConverterOptions(), c.g.Out)
		if err != nil {
			return err
		}
		return session.Run(ctx)
	})
	return ExitStatus(c.g.Err, err)
}

// =============================================================================
// SESSION
// =============================================================================

// Session drives a converter.Controller synchronously from text commands.
// Each command that asks for a fetch performs it before returning.
type Session struct {
	ctrl *converter.Controller
	src  rates.Source
	favs *favorites.Store
	out  io.Writer
}

// NewSession loads the currency list and performs the initial conversion.
// A failed list load is returned as an error.
func NewSession(ctx context.Context, src rates.Source, favs *favorites.Store, opts converter.Options, out io.Writer) (*Session, error) {
	s := &Session{ctrl: converter.New(opts), src: src, favs: favs, out: out}

	names, err := src.Currencies(ctx)
	if err != nil {
		s.ctrl.CurrenciesFailed(err)
		return nil, NewCommandError("repl", "load currencies", errors.New(converter.MsgListUnavailable))
	}
	f, ok := s.ctrl.CurrenciesLoaded(names)
	s.perform(ctx, f, ok)
	return s, nil
}

// Controller exposes the conversion state.
func (s *Session) Controller() *converter.Controller { return s.ctrl }

func (s *Session) perform(ctx context.Context, f converter.Fetch, ok bool) {
	if !ok {
		return
	}
	value, err := s.src.Latest(ctx, f.Request.Amount, f.Request.From, f.Request.To)
	if err != nil {
		s.ctrl.ConversionFailed(f.Seq, err)
		return
	}
	s.ctrl.ConversionSucceeded(f.Seq, value)
}

// Run reads lines until quit, EOF or ctrl+c.
func (s *Session) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(s.Complete)

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, history)

	fmt.Fprintln(s.out, TitleStyle.Render("fxrun repl")+DimStyle.Render("  type help for commands"))
	s.printState()

	for {
		input, err := line.Prompt("fxrun> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return NewCommandError("repl", "read input", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if quit := s.Exec(ctx, input); quit {
			return nil
		}
	}
}

// Exec runs one command line and prints the outcome. It reports whether
// the session should end.
func (s *Session) Exec(ctx context.Context, input string) (quit bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit", "q":
		return true

	case "help", "?":
		fmt.Fprint(s.out, replHelp)
		return false

	case "favs":
		printFavorites(s.out, s.favs.List())
		return false

	case "fav":
		if len(fields) < 2 {
			s.warn("usage: fav CODE [CODE...]")
			return false
		}
		for _, arg := range fields[1:] {
			code, err := s.code(arg)
			if err != nil {
				s.warn(err.Error())
				continue
			}
			if err := toggleAndReport(ctx, s.out, s.favs, code); err != nil {
				fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
			}
		}
		return false

	case "list":
		s.list(strings.Join(fields[1:], ""))
		return false

	case "swap":
		f, ok := s.ctrl.Swap()
		s.perform(ctx, f, ok)

	case "from", "to":
		if len(fields) != 2 {
			s.warn("usage: " + cmd + " CODE")
			return false
		}
		code, err := s.code(fields[1])
		if err != nil {
			s.warn(err.Error())
			return false
		}
		var (
			f  converter.Fetch
			ok bool
		)
		if cmd == "from" {
			f, ok = s.ctrl.SetFrom(code)
		} else {
			f, ok = s.ctrl.SetTo(code)
		}
		s.perform(ctx, f, ok)

	default:
		amount, from, to, err := s.parseConversion(fields)
		if err != nil {
			s.warn(err.Error())
			return false
		}
		f, ok := s.ctrl.SetRequest(amount, from, to)
		s.perform(ctx, f, ok)
	}

	s.printState()
	return false
}

// parseConversion accepts "AMOUNT", "AMOUNT FROM", "AMOUNT FROM TO" and
// "AMOUNT FROM to TO".
func (s *Session) parseConversion(fields []string) (amount, from, to string, err error) {
	if len(fields) == 4 && strings.EqualFold(fields[2], "to") {
		fields = []string{fields[0], fields[1], fields[3]}
	}
	if len(fields) > 3 {
		return "", "", "", fmt.Errorf("unknown command %q (type help)", strings.Join(fields, " "))
	}
	amount = fields[0]
	if len(fields) > 1 {
		if from, err = s.code(fields[1]); err != nil {
			return "", "", "", err
		}
	}
	if len(fields) > 2 {
		if to, err = s.code(fields[2]); err != nil {
			return "", "", "", err
		}
	}
	return amount, from, to, nil
}

// code normalizes arg and checks it against the loaded list.
func (s *Session) code(arg string) (string, error) {
	code, err := parseCode(arg)
	if err != nil {
		return "", err
	}
	if !slices.Contains(s.ctrl.Codes(), code) {
		return "", fmt.Errorf("unknown currency %s (type list)", code)
	}
	return code, nil
}

func (s *Session) list(filter string) {
	groups := components.Partition(s.ctrl.Codes(), s.favs.List(), filter)
	if groups.Len() == 0 {
		s.warn("no matching currencies")
		return
	}
	names := s.ctrl.Names()
	for _, code := range groups.Favorites {
		fmt.Fprintf(s.out, "* %s  %s\n", code, names[code])
	}
	for _, code := range groups.Others {
		fmt.Fprintf(s.out, "  %s  %s\n", code, names[code])
	}
}

func (s *Session) printState() {
	switch {
	case s.ctrl.Notice() != converter.NoticeNone:
		s.warn(s.ctrl.Notice().String())
	case s.ctrl.Err() != "":
		fmt.Fprintln(s.out, ErrorStyle.Render(s.ctrl.Err()))
	default:
		if res, ok := s.ctrl.Result(); ok {
			fmt.Fprintln(s.out, describe(res))
		}
	}
}

func (s *Session) warn(msg string) {
	fmt.Fprintln(s.out, WarningStyle.Render(msg))
}

// Complete returns completions for the last word of line: command names
// for the first word, currency codes after that.
func (s *Session) Complete(line string) []string {
	head, word := "", line
	if i := strings.LastIndex(line, " "); i >= 0 {
		head, word = line[:i+1], line[i+1:]
	}

	var candidates []string
	if head == "" {
		candidates = replCommands
	} else {
		candidates = s.ctrl.Codes()
	}

	upper := strings.ToUpper(word)
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToUpper(c), upper) {
			out = append(out, head+c)
		}
	}
	return out
}

// =============================================================================
// HISTORY
// =============================================================================

func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "repl_history")
}

// saveHistory writes the history with 0600 permissions.
func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
