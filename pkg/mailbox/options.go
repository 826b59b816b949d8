package mailbox

import "github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"

type options struct {
	lg log.Logger
}

// Option configures a Box.
type Option func(*options)

// WithLogger routes box diagnostics to lg.
func WithLogger(lg log.Logger) Option {
	return func(o *options) {
		if lg != nil {
			o.lg = lg
		}
	}
}

func defaultOptions() options {
	return options{lg: log.NewNoopLogger()}
}
