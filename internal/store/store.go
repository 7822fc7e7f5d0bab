// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the small key-value persistence layer used for
// user preferences such as favorite currencies.
//
// Four backends are available:
//   - memory: process-local map, nothing survives exit
//   - file:   one JSON object on disk, written atomically and watchable
//   - sqlite: a single kv table in a local database
//   - redis:  shared keys under a configurable prefix
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// =============================================================================
// INTERFACES
// =============================================================================

// KeyValueStore is a string key to string value store.
type KeyValueStore interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases the backend.
	Close() error
}

// Watcher is implemented by backends that can report changes made by
// other processes.
type Watcher interface {
	// Watch returns a channel that receives a signal after each external
	// change. The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")

	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// =============================================================================
// FACTORY
// =============================================================================

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Path is the JSON file for the file backend.
	Path string

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	Logger *slog.Logger
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (KeyValueStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(opts.Path, logger)
	case BackendSQLite:
		return NewSQLite(ctx, opts.SQLitePath)
	case BackendRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		}, logger)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
