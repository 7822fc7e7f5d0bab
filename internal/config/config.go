// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for fxrun.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.fxrun/config.toml
//   - ~/.fxrun/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/jeranaias/fxrun/internal/currency"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete fxrun configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Remote rate service
	API APIConfig `toml:"api" json:"api"`

	// Converter behaviour
	Converter ConverterConfig `toml:"converter" json:"converter"`

	// Favorites persistence
	Favorites FavoritesConfig `toml:"favorites" json:"favorites"`

	// Key-value store backend
	Store StoreConfig `toml:"store" json:"store"`

	// Logging
	Log LogConfig `toml:"log" json:"log"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig configures the rate service client.
type APIConfig struct {
	// BaseURL is the Frankfurter-compatible endpoint root.
	BaseURL string `toml:"base_url" json:"base_url" validate:"required,url"`

	// TimeoutSecs bounds each HTTP request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" validate:"min=1,max=120"`

	// RateLimit is the client-side request budget per second.
	RateLimit float64 `toml:"rate_limit" json:"rate_limit" validate:"gt=0"`

	// Burst is the number of requests allowed at once.
	Burst int `toml:"burst" json:"burst" validate:"min=1"`
}

// ConverterConfig holds the initial conversion and its timing.
type ConverterConfig struct {
	DefaultAmount string `toml:"default_amount" json:"default_amount" validate:"required"`
	DefaultFrom   string `toml:"default_from" json:"default_from" validate:"required,len=3,alpha"`
	DefaultTo     string `toml:"default_to" json:"default_to" validate:"required,len=3,alpha"`

	// DebounceMs is how long the amount must stay unchanged before a fetch.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" validate:"min=0,max=10000"`

	// QuoteMode is "total" when the service returns amount*rate, "unit" when
	// it returns the rate for one unit.
	QuoteMode string `toml:"quote_mode" json:"quote_mode" validate:"oneof=total unit"`
}

// FavoritesConfig configures the favorites slot.
type FavoritesConfig struct {
	Key      string   `toml:"key" json:"key" validate:"required"`
	Defaults []string `toml:"defaults" json:"defaults" validate:"dive,len=3,alpha"`
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Backend    string      `toml:"backend" json:"backend" validate:"oneof=memory file sqlite redis"`
	Path       string      `toml:"path" json:"path"`
	SQLitePath string      `toml:"sqlite_path" json:"sqlite_path"`
	Redis      RedisConfig `toml:"redis" json:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr" json:"addr" validate:"omitempty,hostname_port"`
	Password string `toml:"password" json:"password"`
	DB       int    `toml:"db" json:"db" validate:"min=0,max=15"`
	Prefix   string `toml:"prefix" json:"prefix"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level" json:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file" json:"file"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	Theme    string `toml:"theme" json:"theme" validate:"oneof=auto dark light"`
	ShowHelp bool   `toml:"show_help" json:"show_help"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     "https://api.frankfurter.app",
			TimeoutSecs: 10,
			RateLimit:   5,
			Burst:       5,
		},
		Converter: ConverterConfig{
			DefaultAmount: "1",
			DefaultFrom:   "USD",
			DefaultTo:     "INR",
			DebounceMs:    500,
			QuoteMode:     string(currency.QuoteTotal),
		},
		Favorites: FavoritesConfig{
			Key:      "favorites",
			Defaults: []string{"EUR", "GBP", "JPY"},
		},
		Store: StoreConfig{
			Backend: "file",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "fxrun:",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme:    "auto",
			ShowHelp: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the fxrun configuration directory path.
// FXRUN_HOME overrides the default ~/.fxrun.
func ConfigDir() (string, error) {
	if dir := os.Getenv("FXRUN_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".fxrun"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ActivePath returns the file Load reads: config.toml when it exists,
// else config.json when it exists, else the config.toml path.
func ActivePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// ensureSecurePermissions tightens config files to 0600; they may hold a
// redis password.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// .env files and environment overrides are applied last.
//
// When a file exists but cannot be decoded, the defaults are returned
// together with the decode error.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				return finish(cfg)
			}
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
				cfg = Default()
			} else {
				return finish(cfg)
			}
		}
	}

	cfg, err := finish(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if isJSON(path) {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// LoadFile returns only what the file at path holds, on top of the
// built-in defaults. Environment overrides and derived paths are not
// applied, so the result is safe to edit and save back. A missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if isJSON(path) {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return cfg, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// finish applies environment, defaults and validation.
func finish(cfg *Config) (*Config, error) {
	loadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// loadDotEnv reads ./.env and <config dir>/.env into the process
// environment. Variables already set are left alone.
func loadDotEnv() {
	paths := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: could not read %s: %v\n", p, err)
		}
	}
}

// fillDefaults fills in any zero values a partial file left behind.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// API
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = defaults.API.RateLimit
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = defaults.API.Burst
	}

	// Converter
	if cfg.Converter.DefaultAmount == "" {
		cfg.Converter.DefaultAmount = defaults.Converter.DefaultAmount
	}
	if cfg.Converter.DefaultFrom == "" {
		cfg.Converter.DefaultFrom = defaults.Converter.DefaultFrom
	}
	if cfg.Converter.DefaultTo == "" {
		cfg.Converter.DefaultTo = defaults.Converter.DefaultTo
	}
	if cfg.Converter.QuoteMode == "" {
		cfg.Converter.QuoteMode = defaults.Converter.QuoteMode
	}

	// Favorites
	if cfg.Favorites.Key == "" {
		cfg.Favorites.Key = defaults.Favorites.Key
	}
	if cfg.Favorites.Defaults == nil {
		cfg.Favorites.Defaults = defaults.Favorites.Defaults
	}

	// Store
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaults.Store.Backend
	}
	if cfg.Store.Redis.Prefix == "" {
		cfg.Store.Redis.Prefix = defaults.Store.Redis.Prefix
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	return nil
}

// SetDefaults normalizes values and resolves paths that depend on the
// config directory.
func (c *Config) SetDefaults() {
	c.Converter.DefaultFrom = currency.Normalize(c.Converter.DefaultFrom)
	c.Converter.DefaultTo = currency.Normalize(c.Converter.DefaultTo)
	c.Converter.QuoteMode = strings.ToLower(c.Converter.QuoteMode)
	c.Favorites.Defaults = currency.NormalizeAll(c.Favorites.Defaults)
	c.Store.Backend = strings.ToLower(c.Store.Backend)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	dir, err := ConfigDir()
	if err != nil {
		return
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(dir, "store.json")
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = filepath.Join(dir, "fxrun.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, "fxrun.log")
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveFile writes cfg in the format the path's extension names: JSON for
// .json, TOML otherwise.
func SaveFile(cfg *Config, path string) error {
	if isJSON(path) {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// ensureDir creates the directory holding path, private to the user.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# fxrun configuration file")
	fmt.Fprintln(file, "# Generated by fxrun - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator reports field names by their toml tags.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks struct tags first, then the rules that span fields.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := structValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Message: describeTag(fe),
			})
		}
	}

	if _, err := currency.ParseAmount(c.Converter.DefaultAmount); err != nil {
		errs = append(errs, ValidationError{
			Field:   "converter.default_amount",
			Message: "must be a number greater than zero",
		})
	}

	if c.Store.Backend == "redis" && c.Store.Redis.Addr == "" {
		errs = append(errs, ValidationError{
			Field:   "store.redis.addr",
			Message: "required when store.backend is redis",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// fieldPath turns "Config.api.base_url" into "api.base_url".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("invalid URL '%v'", fe.Value())
	case "oneof":
		return fmt.Sprintf("invalid value '%v', must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "len":
		return fmt.Sprintf("must be %s characters", fe.Param())
	case "alpha":
		return "must contain only letters"
	case "numeric":
		return fmt.Sprintf("'%v' is not a number", fe.Value())
	case "min", "gt":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "hostname_port":
		return fmt.Sprintf("'%v' is not host:port", fe.Value())
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - FXRUN_API_URL: overrides api.base_url
//   - FXRUN_FROM / FXRUN_TO: override converter.default_from / default_to
//   - FXRUN_DEBOUNCE_MS: overrides converter.debounce_ms
//   - FXRUN_QUOTE_MODE: overrides converter.quote_mode
//   - FXRUN_FAVORITES: comma-separated favorites.defaults
//   - FXRUN_STORE: overrides store.backend
//   - FXRUN_REDIS_ADDR / FXRUN_REDIS_PASSWORD: override store.redis
//   - FXRUN_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FXRUN_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FXRUN_FROM"); v != "" {
		c.Converter.DefaultFrom = v
	}
	if v := os.Getenv("FXRUN_TO"); v != "" {
		c.Converter.DefaultTo = v
	}
	if v := os.Getenv("FXRUN_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Converter.DebounceMs = ms
		}
	}
	if v := os.Getenv("FXRUN_QUOTE_MODE"); v != "" {
		c.Converter.QuoteMode = v
	}
	if v := os.Getenv("FXRUN_FAVORITES"); v != "" {
		c.Favorites.Defaults = strings.Split(v, ",")
	}
	if v := os.Getenv("FXRUN_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("FXRUN_REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("FXRUN_REDIS_PASSWORD"); v != "" {
		c.Store.Redis.Password = v
	}
	if v := os.Getenv("FXRUN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "store.backend").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(strVal == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				field.Set(reflect.ValueOf(strings.Split(strVal, ",")))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Favorites.Defaults = append([]string(nil), c.Favorites.Defaults...)
	return &clone
}

// String renders the config as TOML with the redis password redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Store.Redis.Password != "" {
		safe.Store.Redis.Password = "[REDACTED]"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(safe); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
