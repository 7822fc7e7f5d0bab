// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package favorites keeps the user's favorite currency codes in one
// key-value slot, stored as a JSON array.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jeranaias/fxrun/internal/currency"
	"github.com/jeranaias/fxrun/internal/store"
)

// DefaultKey is the slot favorites are persisted under.
const DefaultKey = "favorites"

// DefaultCodes seeds an empty or unreadable slot.
var DefaultCodes = []string{"EUR", "GBP", "JPY"}

// Store is an ordered set of favorite codes mirrored to a KeyValueStore.
// Safe for concurrent use.
type Store struct {
	kv       store.KeyValueStore
	key      string
	defaults []string
	logger   *slog.Logger

	mu    sync.RWMutex
	codes []string
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the slot name.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithDefaults overrides the seed list. An empty list is allowed.
func WithDefaults(codes []string) Option {
	return func(s *Store) {
		if codes != nil {
			s.defaults = currency.NormalizeAll(codes)
		}
	}
}

// WithLogger sets the logger for load and persist failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Store over kv. Call Load before reading.
func New(kv store.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      DefaultKey,
		defaults: slices.Clone(DefaultCodes),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codes = slices.Clone(s.defaults)
	return s
}

// Load reads the slot and returns the favorites. It never fails: a missing,
// unreadable or malformed slot yields the defaults and is logged.
func (s *Store) Load(ctx context.Context) []string {
	codes := s.read(ctx)

	s.mu.Lock()
	s.codes = codes
	s.mu.Unlock()
	return slices.Clone(codes)
}

// Reload re-reads the slot after an external change. It reports whether
// the list changed.
func (s *Store) Reload(ctx context.Context) bool {
	codes := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Equal(codes, s.codes) {
		return false
	}
	s.logger.Info("FAVORITES_RELOADED", "count", len(codes))
	s.codes = codes
	return true
}

func (s *Store) read(ctx context.Context) []string {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("FAVORITES_LOAD_FAILED", "key", s.key, "error", err)
		return slices.Clone(s.defaults)
	}
	if !found {
		return slices.Clone(s.defaults)
	}

	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		s.logger.Warn("FAVORITES_MALFORMED", "key", s.key, "error", err)
		return slices.Clone(s.defaults)
	}
	if codes == nil {
		// "null" decodes without error but is not an array.
		s.logger.Warn("FAVORITES_MALFORMED", "key", s.key, "value", raw)
		return slices.Clone(s.defaults)
	}
	return currency.NormalizeAll(codes)
}

// Toggle adds code when absent (at the end) or removes it when present,
// persists the whole list and returns it. A persist failure is logged; the
// in-memory list changes regardless.
func (s *Store) Toggle(ctx context.Context, code string) []string {
	codes, _ := s.ToggleErr(ctx, code)
	return codes
}

// ToggleErr is Toggle for callers that report persist failures themselves.
// The returned list reflects the toggle even when err is non-nil.
func (s *Store) ToggleErr(ctx context.Context, code string) ([]string, error) {
	code = currency.Normalize(code)
	if code == "" {
		return s.List(), nil
	}

	s.mu.Lock()
	if i := slices.Index(s.codes, code); i >= 0 {
		s.codes = slices.Delete(slices.Clone(s.codes), i, i+1)
	} else {
		s.codes = append(slices.Clone(s.codes), code)
	}
	codes := slices.Clone(s.codes)
	s.mu.Unlock()

	raw, err := json.Marshal(codes)
	if err != nil {
		s.logger.Error("FAVORITES_ENCODE_FAILED", "error", err)
		return codes, fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Warn("FAVORITES_PERSIST_FAILED", "key", s.key, "code", code, "error", err)
		return codes, fmt.Errorf("save favorites: %w", err)
	}
	s.logger.Debug("FAVORITES_TOGGLED", "code", code, "count", len(codes))
	return codes, nil
}

// List returns a copy of the current favorites in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.codes)
}

// Contains reports whether code is a favorite.
func (s *Store) Contains(code string) bool {
	code = currency.Normalize(code)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.codes, code)
}

// Watch forwards change signals when the backend supports them. ok is
// false when it does not.
func (s *Store) Watch(ctx context.Context) (changes <-chan struct{}, ok bool, err error) {
	w, ok := s.kv.(store.Watcher)
	if !ok {
		return nil, false, nil
	}
	ch, err := w.Watch(ctx)
	if err != nil {
		return nil, true, err
	}
	return ch, true, nil
}
