// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jeranaias/fxrun/internal/config"
	"github.com/jeranaias/fxrun/internal/converter"
	"github.com/jeranaias/fxrun/internal/currency"
	"github.com/jeranaias/fxrun/internal/favorites"
	"github.com/jeranaias/fxrun/internal/logging"
	"github.com/jeranaias/fxrun/internal/rates"
	"github.com/jeranaias/fxrun/internal/store"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// Globals holds the flags shared by every command and the output streams.
type Globals struct {
	ConfigPath string
	LogFile    string
	Debug      bool

	Out io.Writer
	Err io.Writer
}

// NewGlobals returns globals writing to stdout and stderr.
func NewGlobals() *Globals {
	return &Globals{Out: os.Stdout, Err: os.Stderr}
}

// SetFlags registers the global flags on f.
func (g *Globals) SetFlags(f *flag.FlagSet) {
	f.StringVar(&g.ConfigPath, "config", "", "Path to a config file (default ~/.fxrun/config.toml)")
	f.StringVar(&g.LogFile, "log-file", "", "Log file path (overrides log.file)")
	f.BoolVar(&g.Debug, "debug", false, "Log at debug level")
}

// LoadConfig loads the config named by -config, or the default one.
func (g *Globals) LoadConfig() (*config.Config, error) {
	if g.ConfigPath != "" {
		return config.LoadFromPath(g.ConfigPath)
	}
	return config.Load()
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env is everything a command needs, built from the config.
type Env struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     store.KeyValueStore
	Favorites *favorites.Store
	Rates     *rates.Client

	closers []io.Closer
}

// Setup loads the config and opens the logger, the key-value store, the
// favorites and the rate client. The caller must Close the Env.
func Setup(ctx context.Context, g *Globals) (*Env, error) {
	cfg, err := g.LoadConfig()
	if err != nil {
		return nil, NewCommandError("config", "load", err)
	}

	level := cfg.Log.Level
	if g.Debug {
		level = "debug"
	}
	logFile := cfg.Log.File
	if g.LogFile != "" {
		logFile = g.LogFile
	}
	logger, logCloser, err := logging.New(logging.Options{Level: level, File: logFile})
	if err != nil {
		return nil, NewCommandError("log", "open", err)
	}
	env := &Env{Config: cfg, Logger: logger, closers: []io.Closer{logCloser}}

	kv, err := store.Open(ctx, store.Options{
		Backend:       cfg.Store.Backend,
		Path:          cfg.Store.Path,
		SQLitePath:    cfg.Store.SQLitePath,
		RedisAddr:     cfg.Store.Redis.Addr,
		RedisPassword: cfg.Store.Redis.Password,
		RedisDB:       cfg.Store.Redis.DB,
		RedisPrefix:   cfg.Store.Redis.Prefix,
		Logger:        logger,
	})
	if err != nil {
		env.Close()
		return nil, NewCommandError("store", "open "+cfg.Store.Backend, err)
	}
	env.Store = kv
	env.closers = append([]io.Closer{kv}, env.closers...)

	env.Favorites = favorites.New(kv,
		favorites.WithKey(cfg.Favorites.Key),
		favorites.WithDefaults(cfg.Favorites.Defaults),
		favorites.WithLogger(logger),
	)
	env.Favorites.Load(ctx)

	env.Rates = rates.NewClientWithConfig(&rates.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   time.Duration(cfg.API.TimeoutSecs) * time.Second,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		UserAgent: "fxrun/" + Version,
		Logger:    logger,
	})

	logger.Info("STARTUP",
		"version", Version,
		"backend", cfg.Store.Backend,
		"api", cfg.API.BaseURL)
	return env, nil
}

// Close releases the store and the log file.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// QuoteMode returns the configured quote mode, defaulting to total.
func (e *Env) QuoteMode() currency.QuoteMode {
	mode, err := currency.ParseQuoteMode(e.Config.Converter.QuoteMode)
	if err != nil {
		return currency.QuoteTotal
	}
	return mode
}

// ConverterOptions returns controller options from the config.
func (e *Env) ConverterOptions() converter.Options {
	return converter.Options{
		DefaultAmount: e.Config.Converter.DefaultAmount,
		From:          e.Config.Converter.DefaultFrom,
		To:            e.Config.Converter.DefaultTo,
		QuoteMode:     e.QuoteMode(),
		Logger:        e.Logger,
	}
}

// Debounce returns the configured amount debounce.
func (e *Env) Debounce() time.Duration {
	return time.Duration(e.Config.Converter.DebounceMs) * time.Millisecond
}

// withEnv runs fn with a fresh Env that is closed afterwards.
func withEnv(ctx context.Context, g *Globals, fn func(*Env) error) error {
	env, err := Setup(ctx, g)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}

// describe formats a conversion for terminal output.
func describe(res currency.Result) string {
	return fmt.Sprintf("%s\n%s", ValueStyle.Render(res.String()), DimStyle.Render(res.Describe()))
}
