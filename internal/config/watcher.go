package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ScriptWatcher watches a script directory and fires a callback when .lua
// files change. Rapid bursts of events (editors write, rename, and chmod in
// quick succession) are debounced into a single callback.
type ScriptWatcher struct {
	dir      string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger

	fsw       *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// WatcherOption configures a ScriptWatcher.
type WatcherOption func(*ScriptWatcher)

// WithWatcherDebounce sets the quiet period before the callback fires.
// Defaults to 200ms.
func WithWatcherDebounce(d time.Duration) WatcherOption {
	return func(w *ScriptWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *ScriptWatcher) { w.logger = logger }
}

// NewScriptWatcher creates a watcher for dir that calls onChange after
// changes settle.
func NewScriptWatcher(dir string, onChange func(), opts ...WatcherOption) (*ScriptWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &ScriptWatcher{
		dir:      dir,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		logger:   slog.Default(),
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *ScriptWatcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("script change", "path", event.Name, "op", event.Op.String())
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

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("script watcher", "error", err)

		case <-fire:
			timer = nil
			fire = nil
			w.onChange()
		}
	}
}

// relevant filters events to .lua content changes.
func (w *ScriptWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".lua" {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}

// Close stops the watcher. The callback will not fire afterward.
func (w *ScriptWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
