// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_Writer(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("IGNORED")
	logger.Warn("CONVERSION_FAILED", "seq", 3)

	out := buf.String()
	assert.NotContains(t, out, "IGNORED")
	assert.Contains(t, out, "msg=CONVERSION_FAILED")
	assert.Contains(t, out, "seq=3")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fxrun.log")
	logger, closer, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("STARTUP", "version", "test")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=STARTUP")
}

func TestNew_NoDestination(t *testing.T) {
	logger, closer, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
