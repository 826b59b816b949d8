package status

import "github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"

type options[E Enum] struct {
	lg    log.Logger
	namer func(E) string
}

// Option configures a Tracker.
type Option[E Enum] func(*options[E])

// WithLogger routes tracker diagnostics to lg.
func WithLogger[E Enum](lg log.Logger) Option[E] {
	return func(o *options[E]) {
		if lg != nil {
			o.lg = lg
		}
	}
}

// WithNamer supplies display names for enum values, used in logs and
// snapshots. Without it, entries are named by their integer value.
func WithNamer[E Enum](namer func(E) string) Option[E] {
	return func(o *options[E]) {
		o.namer = namer
	}
}

func defaultOptions[E Enum]() options[E] {
	return options[E]{lg: log.NewNoopLogger()}
}
