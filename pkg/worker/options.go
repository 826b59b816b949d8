package worker

import "github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"

type options struct {
	lg         log.Logger
	onPhase    PhaseChange
	accountant Accountant
}

// Option configures a Worker.
type Option func(*options)

// WithLogger routes worker diagnostics to lg.
func WithLogger(lg log.Logger) Option {
	return func(o *options) {
		if lg != nil {
			o.lg = lg
		}
	}
}

// WithPhaseChange registers an observer called after every phase
// transition.
func WithPhaseChange(fn PhaseChange) Option {
	return func(o *options) {
		o.onPhase = fn
	}
}

// WithAccountant reports thread creation and deletion to a.
func WithAccountant(a Accountant) Option {
	return func(o *options) {
		o.accountant = a
	}
}

func defaultOptions() options {
	return options{lg: log.NewNoopLogger()}
}
