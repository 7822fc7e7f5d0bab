// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for fxrun.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Rate service endpoint, timeout and client-side rate limit
//   - ConverterConfig: Initial amount and currencies, debounce, quote mode
//   - StoreConfig: Key-value backend for favorites
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FXRUN_*), including those from .env files
//   - ~/.fxrun/config.toml
//   - ~/.fxrun/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	debounce := time.Duration(cfg.Converter.DebounceMs) * time.Millisecond
package config
