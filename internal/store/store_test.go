// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SHARED BEHAVIOUR
// =============================================================================

func testRoundTrip(t *testing.T, s KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "favorites", `["EUR","GBP"]`))
	v, found, err := s.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["EUR","GBP"]`, v)

	require.NoError(t, s.Set(ctx, "favorites", `[]`))
	v, _, err = s.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Close())
	_, _, err = s.Get(ctx, "favorites")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(ctx, "favorites", "x"), ErrClosed)
}

func TestMemory_RoundTrip(t *testing.T) {
	testRoundTrip(t, NewMemory())
}

func TestFile_RoundTrip(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "store.json"), nil)
	require.NoError(t, err)
	testRoundTrip(t, s)
}

func TestSQLite_RoundTrip(t *testing.T) {
	s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	testRoundTrip(t, s)
}

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("FXRUN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FXRUN_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedis(context.Background(), RedisOptions{
		Addr:   addr,
		Prefix: "fxrun-test:" + time.Now().Format("150405.000") + ":",
	}, nil)
	require.NoError(t, err)
	testRoundTrip(t, s)
}

// =============================================================================
// FILE BACKEND
// =============================================================================

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	ctx := context.Background()

	a, err := NewFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, a.Set(ctx, "k", "v"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	b, err := NewFile(path, nil)
	require.NoError(t, err)
	v, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	ctx := context.Background()

	s, err := NewFile(path, nil)
	require.NoError(t, err)

	_, _, err = s.Get(ctx, "k")
	assert.Error(t, err)

	// a write replaces the corrupt content
	require.NoError(t, s.Set(ctx, "k", "v"))
	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestFile_ConcurrentSet(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "store.json"), nil)
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	keys := []string{"a", "b", "c", "d", "e"}
	for _, k := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			assert.NoError(t, s.Set(ctx, k, k+"-value"))
		}(k)
	}
	wg.Wait()

	for _, k := range keys {
		v, found, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.True(t, found, k)
		assert.Equal(t, k+"-value", v)
	}
}

func TestFile_WatchExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := NewFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "favorites", `["EUR"]`))

	changes, err := s.Watch(ctx)
	require.NoError(t, err)

	// another process rewrites the file
	other, err := NewFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, other.Set(ctx, "favorites", `["EUR","JPY"]`))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after external write")
	}

	v, _, err := s.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, `["EUR","JPY"]`, v)

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

// =============================================================================
// FACTORY
// =============================================================================

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Backend: "file", Path: filepath.Join(dir, "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)
	_, ok := s.(Watcher)
	assert.True(t, ok)

	s, err = Open(ctx, Options{Backend: "sqlite", SQLitePath: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
