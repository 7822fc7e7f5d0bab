// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir for the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FXRUN_HOME", dir)
	return dir
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

func TestDefault_Validates(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://api.frankfurter.app", cfg.API.BaseURL)
	assert.Equal(t, 500, cfg.Converter.DebounceMs)
	assert.Equal(t, "total", cfg.Converter.QuoteMode)
	assert.Equal(t, []string{"EUR", "GBP", "JPY"}, cfg.Favorites.Defaults)
	assert.Equal(t, filepath.Join(dir, "store.json"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(dir, "fxrun.log"), cfg.Log.File)
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Converter.DefaultFrom)
	assert.Equal(t, "file", cfg.Store.Backend)
}

func TestLoad_TOMLPartial(t *testing.T) {
	dir := isolate(t)
	data := `
[converter]
default_from = "gbp"
quote_mode = "unit"

[favorites]
defaults = ["chf", "EUR", "chf"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.Converter.DefaultFrom)
	assert.Equal(t, "INR", cfg.Converter.DefaultTo)
	assert.Equal(t, "unit", cfg.Converter.QuoteMode)
	assert.Equal(t, []string{"CHF", "EUR"}, cfg.Favorites.Defaults)
	assert.Equal(t, 10, cfg.API.TimeoutSecs)

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	data := `{"store": {"backend": "sqlite"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(data), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
}

func TestLoad_BrokenFileFallsBackToDefaults(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\nbase_url="), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\nbackend = \"etcd\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "store.backend", verrs[0].Field)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "out", "config.toml")

	cfg := Default()
	cfg.Converter.DefaultTo = "EUR"
	cfg.Store.Backend = "memory"
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", loaded.Converter.DefaultTo)
	assert.Equal(t, "memory", loaded.Store.Backend)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad backend", func(c *Config) { c.Store.Backend = "etcd" }, "store.backend"},
		{"negative debounce", func(c *Config) { c.Converter.DebounceMs = -1 }, "converter.debounce_ms"},
		{"bad quote mode", func(c *Config) { c.Converter.QuoteMode = "spot" }, "converter.quote_mode"},
		{"bad code", func(c *Config) { c.Converter.DefaultFrom = "US1" }, "converter.default_from"},
		{"zero amount", func(c *Config) { c.Converter.DefaultAmount = "0" }, "converter.default_amount"},
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, "api.base_url"},
		{"bad favorite", func(c *Config) { c.Favorites.Defaults = []string{"EURO"} }, "favorites.defaults[0]"},
		{"redis without addr", func(c *Config) {
			c.Store.Backend = "redis"
			c.Store.Redis.Addr = ""
		}, "store.redis.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))

			fields := make([]string, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_DefaultAmountMatchesParser(t *testing.T) {
	cfg := Default()
	cfg.Converter.DefaultAmount = "1,000"
	assert.NoError(t, cfg.Validate())

	cfg.Converter.DefaultAmount = "abc"
	assert.Error(t, cfg.Validate())
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FXRUN_API_URL", "http://127.0.0.1:9999")
	t.Setenv("FXRUN_FROM", "eur")
	t.Setenv("FXRUN_DEBOUNCE_MS", "250")
	t.Setenv("FXRUN_STORE", "memory")
	t.Setenv("FXRUN_FAVORITES", "chf,sek")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.API.BaseURL)
	assert.Equal(t, "EUR", cfg.Converter.DefaultFrom)
	assert.Equal(t, 250, cfg.Converter.DebounceMs)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, []string{"CHF", "SEK"}, cfg.Favorites.Defaults)
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	_, set := os.LookupEnv("FXRUN_QUOTE_MODE")
	require.False(t, set, "FXRUN_QUOTE_MODE must not be set for this test")
	t.Cleanup(func() { os.Unsetenv("FXRUN_QUOTE_MODE") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FXRUN_QUOTE_MODE=unit\n"), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "unit", cfg.Converter.QuoteMode)
}

// =============================================================================
// DOT NOTATION
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, "https://api.frankfurter.app", v)

	require.NoError(t, cfg.Set("converter.debounce_ms", "750"))
	assert.Equal(t, 750, cfg.Converter.DebounceMs)

	require.NoError(t, cfg.Set("store.redis.db", "2"))
	assert.Equal(t, 2, cfg.Store.Redis.DB)

	require.NoError(t, cfg.Set("favorites.defaults", "CHF,SEK"))
	assert.Equal(t, []string{"CHF", "SEK"}, cfg.Favorites.Defaults)

	_, err = cfg.Get("api.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("api.base_url.more", "x"))
}

func TestString_RedactsPassword(t *testing.T) {
	cfg := Default()
	cfg.Store.Redis.Password = "hunter2"
	out := cfg.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "hunter2", cfg.Store.Redis.Password)
}

// =============================================================================
// FILE-ONLY LOAD AND SAVE
// =============================================================================

func TestLoadFile_IgnoresEnvironment(t *testing.T) {
	dir := isolate(t)
	t.Setenv("FXRUN_API_URL", "http://staging.example:9999")
	t.Setenv("FXRUN_REDIS_PASSWORD", "from-env")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[converter]\ndefault_to = \"EUR\"\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Converter.DefaultTo)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
	assert.Empty(t, cfg.Store.Redis.Password)
	assert.Empty(t, cfg.Store.Path, "derived paths are not filled in")
	assert.Empty(t, cfg.Log.File)
}

func TestLoadFile_Missing(t *testing.T) {
	isolate(t)
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveFile_KeepsFormat(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg := Default()
	cfg.UI.Theme = "dark"

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, SaveFile(cfg, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"theme": "dark"`)

	tomlPath := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveFile(cfg, tomlPath))
	data, err = os.ReadFile(tomlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `theme = "dark"`)

	loaded, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.UI.Theme)
}

func TestActivePath(t *testing.T) {
	dir := isolate(t)

	path, err := ActivePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), path, "defaults to TOML")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{}"), 0600))
	path, err = ActivePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))
	path, err = ActivePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), path, "TOML wins when both exist")
}
