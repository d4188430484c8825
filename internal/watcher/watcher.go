// Package watcher regenerates digests when log files change, using
// OS-level file notifications on the logs directory.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches bursts of writes (editors save in several
// events) into a single regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a logs directory and invokes a callback after changes
// settle. Watching the directory rather than individual files picks up
// newly created logs.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	pattern  string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher over dir for files matching pattern (a glob
// relative to dir, e.g. *.md).
func New(dir, pattern string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		fsw:      fsw,
		dir:      dir,
		pattern:  pattern,
		debounce: DefaultDebounce,
		logger:   logger,
	}, nil
}

// WithDebounce overrides the settle interval. Test seam.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Start blocks until the context is cancelled, calling onChange once per
// settled burst of relevant file events.
func (w *Watcher) Start(ctx context.Context, onChange func(ctx context.Context)) {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("log change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			onChange(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// relevant filters to content-changing events on files matching the
// configured pattern.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.pattern == "" {
		return true
	}
	ok, err := doublestar.Match(w.pattern, filepath.Base(ev.Name))
	return err == nil && ok
}
