// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     config
// Description: File watcher for config and rules hot-reload
// Author:      Kiran Shivaraju
// Created:     2026-07-10
// License:     MIT
// ============================================================================

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kiranshivaraju/voice2code/internal/logging"
)

// Watcher reloads watched files when they change on disk. It watches the
// containing directories because editors replace files on save.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	files    map[string]func(path string)
	logger   *logging.Logger
	stopCh   chan struct{}
	running  bool
}

// NewWatcher creates a file watcher
func NewWatcher(logger *logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		files:  make(map[string]func(path string)),
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// AddFile registers a callback for changes to path. Must be called
// before Start.
func (w *Watcher) AddFile(path string, onChange func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w.files[abs] = onChange
}

// Start begins watching. It returns once the watcher is installed; events
// are handled on a background goroutine until ctx is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if len(w.files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = watcher

	dirs := make(map[string]bool)
	for path := range w.files {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.watcher.Close()
			w.watcher = nil
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	w.running = true
	w.logger.Info("Watching for file changes", "files", len(w.files))

	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher. The watcher is one-shot: a stopped watcher
// cannot be started again.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

// watchLoop handles file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.running = false
		if w.watcher != nil {
			w.watcher.Close()
			w.watcher = nil
		}
		w.mu.Unlock()
	}()

	// Debounce to prevent multiple reloads for the same save
	debounce := make(map[string]time.Time)
	debounceDelay := 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher (context cancelled)")
			return

		case <-w.stopCh:
			w.logger.Info("Stopping file watcher (stop signal)")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil {
				abs = event.Name
			}

			w.mu.Lock()
			onChange := w.files[abs]
			w.mu.Unlock()
			if onChange == nil {
				continue
			}

			if last, exists := debounce[abs]; exists && time.Since(last) < debounceDelay {
				continue
			}
			debounce[abs] = time.Now()

			w.logger.Info("File changed, reloading", "file", filepath.Base(abs))
			onChange(abs)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}
