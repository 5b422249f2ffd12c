// Package watch reports changes made to the entry store by other processes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher signals on Changes when any watched file is written, created,
// renamed or removed. Files are matched by base-name prefix so SQLite's
// -wal and -shm companions count as the database.
type Watcher struct {
	fs       *fsnotify.Watcher
	names    map[string]bool
	debounce time.Duration
	changes  chan struct{}
	log      *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// New watches the directories of paths. A nil logger discards output.
func New(logger *slog.Logger, paths ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		names:    make(map[string]bool),
		debounce: DefaultDebounce,
		changes:  make(chan struct{}, 1),
		log:      logger,
		done:     make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.names[filepath.Base(abs)] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// SetDebounce overrides DefaultDebounce. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Changes delivers at most one pending notification at a time. It is closed
// once the event loop stops.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) matches(name string) bool {
	base := filepath.Base(name)
	for want := range w.names {
		if base == want || strings.HasPrefix(base, want+"-") {
			return true
		}
	}
	return false
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		close(w.changes)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			w.log.Debug("store change detected", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("store watcher error", slog.Any("error", err))
		}
	}
}
