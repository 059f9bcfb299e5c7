// Package watch monitors a data directory and coalesces bursts of
// filesystem events into single change notifications.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required after the last event
// before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers OnChange after a debounced burst of events under the
// watched directory. Downloads that land many files in quick succession
// produce one notification, not one per file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	OnChange func() error
	OnError  func(err error)
}

// NewWatcher creates a watcher. A non-positive debounce selects
// DefaultDebounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{watcher: fsWatcher, debounce: debounce}, nil
}

// Watch starts watching dir for changes.
func (w *Watcher) Watch(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("%s is not a directory", absPath)
	}

	if err := w.watcher.Add(absPath); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	return nil
}

// Run starts the watch loop. Blocks until context is cancelled or the
// event stream closes. OnChange runs on the loop goroutine, so a slow
// callback delays later notifications rather than overlapping them.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if w.OnChange != nil {
				if err := w.OnChange(); err != nil && w.OnError != nil {
					w.OnError(err)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
