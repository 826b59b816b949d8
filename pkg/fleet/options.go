package fleet

import (
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
)

// Watcher timing defaults.
const (
	// DefaultDebounce coalesces bursts of file events into one reload.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultRetryBase is the first reload-retry delay.
	DefaultRetryBase = 250 * time.Millisecond

	// DefaultRetryMax caps the reload-retry delay.
	DefaultRetryMax = 5 * time.Second
)

type options struct {
	lg       log.Logger
	preInit  func() bool
	postInit func() bool

	debounce  time.Duration
	retryBase time.Duration
	retryMax  time.Duration
}

// Option configures a Manager or Watcher.
type Option func(*options)

// WithLogger routes diagnostics to lg.
func WithLogger(lg log.Logger) Option {
	return func(o *options) {
		if lg != nil {
			o.lg = lg
		}
	}
}

// WithPreInit runs fn at the top of Initialize, before any worker is
// created. Returning false aborts the pass.
func WithPreInit(fn func() bool) Option {
	return func(o *options) {
		o.preInit = fn
	}
}

// WithPostInit runs fn at the end of Initialize, after every worker had
// its creation attempt. Returning false fails the pass.
func WithPostInit(fn func() bool) Option {
	return func(o *options) {
		o.postInit = fn
	}
}

// WithDebounce overrides the watcher's event-coalescing delay.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithRetry overrides the watcher's reload-retry backoff bounds.
func WithRetry(base, max time.Duration) Option {
	return func(o *options) {
		if base > 0 && max >= base {
			o.retryBase = base
			o.retryMax = max
		}
	}
}

func defaultOptions() options {
	return options{
		lg:        log.NewNoopLogger(),
		debounce:  DefaultDebounce,
		retryBase: DefaultRetryBase,
		retryMax:  DefaultRetryMax,
	}
}
