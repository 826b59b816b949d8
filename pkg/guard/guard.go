package guard

import (
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// DefaultWaitMsec is the implicit acquisition budget in milliseconds.
const DefaultWaitMsec = 250

// DefaultWait is the implicit acquisition budget.
const DefaultWait osal.Wait = DefaultWaitMsec

type options struct {
	wait osal.Wait
	lg   log.Logger
}

// Option configures a Guard or NamedMutex.
type Option func(*options)

// WithWait overrides the acquisition budget.
func WithWait(w osal.Wait) Option {
	return func(o *options) {
		o.wait = w
	}
}

// WithLogger routes failure diagnostics to lg.
func WithLogger(lg log.Logger) Option {
	return func(o *options) {
		if lg != nil {
			o.lg = lg
		}
	}
}

func defaultOptions() options {
	return options{
		wait: DefaultWait,
		lg:   log.NewNoopLogger(),
	}
}

// Guard holds one of two lock sources for a lexical scope: a raw provider
// mutex or a NamedMutex wrapper. Exactly one source is set. Construction
// never panics; callers check Acquired before touching guarded state.
type Guard struct {
	raw   osal.Mutex
	named *NamedMutex
	lg    log.Logger

	acquired bool
	released bool
}

// Acquire locks a raw provider mutex for the current scope.
func Acquire(m osal.Mutex, opts ...Option) *Guard {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	g := &Guard{raw: m, lg: o.lg}
	if m == nil {
		g.lg.Error("guard over nil mutex")
		return g
	}
	st := m.Acquire(o.wait)
	g.acquired = st.OK()
	if !g.acquired {
		g.lg.Warn("guard acquisition failed",
			log.String("mutex", m.Name()),
			log.String("status", st.String()),
			log.String("wait", o.wait.String()))
	}
	return g
}

// AcquireNamed locks a NamedMutex wrapper, creating its underlying mutex on
// first use.
func AcquireNamed(nm *NamedMutex, opts ...Option) *Guard {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	g := &Guard{named: nm, lg: o.lg}
	if nm == nil {
		g.lg.Error("guard over nil named mutex")
		return g
	}
	g.acquired = nm.Acquire(o.wait)
	return g
}

// Acquired reports whether the lock is held.
func (g *Guard) Acquired() bool {
	return g.acquired
}

// Release unlocks whichever source the guard holds. It is idempotent and
// unconditional: failures are logged, never escalated, so it is always safe
// to defer.
func (g *Guard) Release() {
	if g.released || !g.acquired {
		g.released = true
		return
	}
	g.released = true

	// The one point where both lock sources meet.
	switch {
	case g.named != nil:
		if !g.named.Release() {
			g.lg.Warn("guard release failed", log.String("mutex", g.named.Name()))
		}
	case g.raw != nil:
		if st := g.raw.Release(); !st.OK() {
			g.lg.Warn("guard release failed",
				log.String("mutex", g.raw.Name()),
				log.String("status", st.String()))
		}
	}
}
