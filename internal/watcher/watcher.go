// Package watcher reports settled changes to a single file.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file. It watches the parent directory so that
// editors and deploy tools replacing the file by rename are still seen,
// and debounces bursts of writes until the size and mtime stop changing.
type Watcher struct {
	path    string
	logger  *slog.Logger
	opts    Options
	watcher *fsnotify.Watcher

	pending *pendingEvent // nil when nothing is settling
	mu      sync.Mutex    // protects pending

	events   chan Event
	errors   chan error
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// pendingEvent tracks a file that may still be changing
type pendingEvent struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher for path. The file's directory must exist.
func New(logger *slog.Logger, path string, opts Options) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.setDefaults()

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:    path,
		logger:  logger,
		opts:    opts,
		watcher: fw,
		events:  make(chan Event, 10),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start processes file system events. It blocks until the context is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	defer w.wg.Done()

	w.logger.Info("watching catalog file", "path", w.path, "settle_delay", w.opts.SettleDelay)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("dropping watcher error", "error", err)
			}
		}
	}
}

// handleFsnotifyEvent handles an fsnotify event for the watched file.
func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.startSettling()
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// A rename-over replace is followed by a Create; only report the
		// removal if the file is really gone once it settles.
		w.startSettling()
	}
}

// startSettling (re)starts the settle timer.
func (w *Watcher) startSettling() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
	}

	pending := &pendingEvent{}
	if info, err := os.Stat(w.path); err == nil {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
	}
	pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
	w.pending = pending
}

// checkSettled emits an event once the file has stopped changing.
func (w *Watcher) checkSettled() {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending := w.pending
	if pending == nil {
		return
	}

	info, err := os.Stat(w.path)
	if err != nil {
		w.pending = nil
		w.emitEvent(Event{Type: EventRemoved, Path: w.path})
		return
	}

	if info.Size() != pending.size || !info.ModTime().Equal(pending.modTime) {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
		return
	}

	w.pending = nil
	w.emitEvent(Event{
		Type:    EventChanged,
		Path:    w.path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

// emitEvent sends an event unless the watcher is stopping.
func (w *Watcher) emitEvent(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel of settled changes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources. It is safe to call more
// than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		if w.pending != nil {
			w.pending.timer.Stop()
			w.pending = nil
		}
		w.mu.Unlock()

		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
