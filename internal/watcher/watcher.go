// Package watcher provides filesystem monitoring for renorm's watch mode.
// Watch mode never mutates the filesystem; it re-plans in dry-run whenever
// the watched tree settles after a change.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"renorm/internal/logging"
)

// Config contains watcher settings.
type Config struct {
	// DebounceSeconds is the quiet period required after the last event
	// before the handler fires.
	DebounceSeconds int
	// Filter drops events for paths that are ignored. Nil keeps everything.
	Filter func(path string, isDir bool) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{DebounceSeconds: 2}
}

// Summary contains stats from a watch session.
type Summary struct {
	EventsSeen    int
	EventsIgnored int
	Replans       int
	Duration      time.Duration
}

// Handler is invoked once per settled burst of filesystem activity.
type Handler func()

// Watcher monitors a directory tree root for changes.
type Watcher struct {
	config    *Config
	handler   Handler
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu            sync.Mutex
	eventsSeen    int
	eventsIgnored int
	replans       int
}

// New creates a Watcher. If config is nil, defaults are used. The handler
// runs after each debounced burst of events.
func New(config *Config, handler Handler) *Watcher {
	if config == nil {
		config = DefaultConfig()
	}
	w := &Watcher{
		config:  config,
		handler: handler,
		done:    make(chan struct{}),
	}
	delay := time.Duration(config.DebounceSeconds) * time.Second
	w.debouncer = NewDebouncer(delay, func(string) {
		w.mu.Lock()
		w.replans++
		w.mu.Unlock()
		if w.handler != nil {
			w.handler()
		}
	})
	return w
}

// Start begins watching the given directories. The watcher runs until Stop
// is called.
func (w *Watcher) Start(dirs []string) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.Add(dirs); err != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
		return err
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Add registers additional directories with the watcher. Re-adding an
// already-watched path is harmless, so callers can re-derive the full watch
// list after new directories appear in the tree.
func (w *Watcher) Add(dirs []string) error {
	if w.fsWatcher == nil {
		return fsnotify.ErrClosed
	}
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if err := w.fsWatcher.Add(absDir); err != nil {
			return err
		}
	}
	return nil
}

// Stop shuts down the watcher and returns a summary of the session.
func (w *Watcher) Stop() *Summary {
	close(w.done)
	w.wg.Wait()
	w.debouncer.CancelAll()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &Summary{
		EventsSeen:    w.eventsSeen,
		EventsIgnored: w.eventsIgnored,
		Replans:       w.replans,
		Duration:      time.Since(w.startTime),
	}
}

// processEvents consumes fsnotify events until Stop is called.
func (w *Watcher) processEvents() {
	defer w.wg.Done()
	logger := logging.GetLogger("watcher")

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.handleEvent(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}

// handleEvent filters one event and schedules a debounced re-plan.
// All paths coalesce onto a single debounce key: a burst of unrelated
// changes still produces one re-plan of the whole tree.
func (w *Watcher) handleEvent(path string) {
	w.mu.Lock()
	w.eventsSeen++
	w.mu.Unlock()

	if w.config.Filter != nil && w.config.Filter(path, false) {
		w.mu.Lock()
		w.eventsIgnored++
		w.mu.Unlock()
		return
	}
	w.debouncer.Add("replan")
}

// IsRunning returns true while the watcher is active.
func (w *Watcher) IsRunning() bool {
	select {
	case <-w.done:
		return false
	default:
		return w.fsWatcher != nil
	}
}
