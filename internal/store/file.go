// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events produced by one atomic write.
const watchDebounce = 50 * time.Millisecond

// File stores all keys in one JSON object file.
//
// Every Get reads the file so that writes by another process are visible
// without restarting. Writes go through a temp file and rename.
type File struct {
	path   string
	logger *slog.Logger

	mu          sync.Mutex
	lastWritten []byte
	closed      bool
}

// NewFile returns a file store at path. The file is created on first Set.
func NewFile(path string, logger *slog.Logger) (*File, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{path: abs, logger: logger}, nil
}

// Path returns the absolute path of the backing file.
func (f *File) Path() string { return f.path }

// Get implements KeyValueStore.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Set implements KeyValueStore.
func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	data, err := f.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every write.
		f.logger.Warn("STORE_FILE_RESET", "path", f.path, "error", err)
		data = make(map[string]string)
	}
	data[key] = value

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal: %w", err)
	}
	if err := atomicWriteFile(f.path, raw, 0600); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	f.lastWritten = raw
	f.logger.Debug("STORE_FILE_WRITE", "path", f.path, "key", key)
	return nil
}

// Close implements KeyValueStore.
func (f *File) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// read loads the whole object. A missing file is an empty store.
func (f *File) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read: %w", err)
	}
	data := make(map[string]string)
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("file store: decode %s: %w", f.path, err)
	}
	return data, nil
}

// =============================================================================
// WATCH
// =============================================================================

// Watch implements Watcher. The parent directory is watched because atomic
// writes replace the file inode.
func (f *File) Watch(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("file store: watch: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("file store: watch: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("file store: watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	go f.processEvents(ctx, w, out)
	return out, nil
}

func (f *File) processEvents(ctx context.Context, w *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer w.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	name := filepath.Base(f.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.logger.Warn("STORE_WATCH_ERROR", "path", f.path, "error", err)

		case <-timer.C:
			if f.ownWrite() {
				continue
			}
			f.logger.Debug("STORE_FILE_CHANGED", "path", f.path)
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// ownWrite reports whether the file still holds what this process last wrote.
func (f *File) ownWrite() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastWritten == nil {
		return false
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	return bytes.Equal(raw, f.lastWritten)
}

// =============================================================================
// ATOMIC WRITE
// =============================================================================

// atomicWriteFile writes data to a temp file in the same directory, syncs
// it, then renames it over path. On crash either the old or the new file
// exists, never a partial one.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync data to disk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
