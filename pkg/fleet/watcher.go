package fleet

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/mailbox"
)

// Watcher reloads a TOML config file when it changes and publishes every
// valid result through a mailbox.Box. Bursts of file events collapse into
// one reload via a debounce timer; a failed reload retries with capped
// exponential backoff until the file parses again or the watch stops.
// Invalid intermediate states therefore never reach consumers.
type Watcher struct {
	path string
	base Config
	out  *mailbox.Box[Config]
	lg   log.Logger

	debounceDelay time.Duration
	retryBase     time.Duration
	retryMax      time.Duration

	mu       sync.Mutex
	debounce *time.Timer
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewWatcher prepares a watcher on path. Each reload applies the file on
// top of base, validates, and publishes the result to out.
func NewWatcher(path string, base Config, out *mailbox.Box[Config], opts ...Option) *Watcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Watcher{
		path:          path,
		base:          base,
		out:           out,
		lg:            o.lg,
		debounceDelay: o.debounce,
		retryBase:     o.retryBase,
		retryMax:      o.retryMax,
	}
}

// Start begins watching until ctx is canceled or Stop is called. If the
// file already exists its current content is published first, so a late
// consumer still sees the starting configuration.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return ErrWatcherRunning
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors replace the file on save, which would
	// silently drop a watch registered on the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, fw, w.done)
	return nil
}

// Stop ends the watch and waits for the event loop to exit. Safe to call
// when the watcher never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer fw.Close()

	if fileExists(w.path) {
		w.reloadWithRetry(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceReload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.lg.Warn("config watch error", log.Err(err))
		}
	}
}

func (w *Watcher) debounceReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, func() {
		w.reloadWithRetry(ctx)
	})
}

// reloadWithRetry retries until a valid config loads or ctx is canceled.
func (w *Watcher) reloadWithRetry(ctx context.Context) {
	b := NewBackoff(w.retryBase, w.retryMax)
	for {
		cfg, err := w.reload()
		if err == nil {
			if w.out.Set(cfg) {
				w.lg.Info("configuration reloaded", log.String("path", w.path))
			} else {
				w.lg.Warn("configuration publish failed", log.String("path", w.path))
			}
			return
		}
		w.lg.Warn("configuration reload failed",
			log.String("path", w.path), log.Err(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(b.Next()):
		}
	}
}

// reload applies the file on top of the base config and validates.
func (w *Watcher) reload() (Config, error) {
	fc, err := loadFileConfig(w.path)
	if err != nil {
		return Config{}, err
	}
	cfg := w.base
	if err := applyFileConfig(&cfg, fc, nil); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
