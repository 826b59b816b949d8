package goos

import (
	"runtime"
	"sync"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// DefaultTickRateHz is the simulated tick rate. At 1000 Hz one tick is one
// millisecond, so tick and msec values coincide by default.
const DefaultTickRateHz = 1000

// Provider creates Go-runtime-backed OS primitives. It also implements
// osal.Clock against its own start instant.
type Provider struct {
	lg     log.Logger
	epoch  time.Time
	rateHz int64

	mu        sync.Mutex
	allocated int
	limit     int
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger routes provider diagnostics to lg.
func WithLogger(lg log.Logger) Option {
	return func(p *Provider) {
		if lg != nil {
			p.lg = lg
		}
	}
}

// WithAllocationLimit makes every creation after the first n fail with
// ErrNoMemory. Zero means unlimited.
func WithAllocationLimit(n int) Option {
	return func(p *Provider) {
		p.limit = n
	}
}

// WithTickRate overrides the simulated tick rate in Hz.
func WithTickRate(hz int64) Option {
	return func(p *Provider) {
		if hz > 0 {
			p.rateHz = hz
		}
	}
}

// New returns a ready-to-use provider. The zero option set gives unlimited
// allocations, a no-op logger and a 1000 Hz clock.
func New(opts ...Option) *Provider {
	p := &Provider{
		lg:     log.NewNoopLogger(),
		epoch:  time.Now(),
		rateHz: DefaultTickRateHz,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) allocate(kind, name string) osal.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limit > 0 && p.allocated >= p.limit {
		p.lg.Warn("allocation limit reached",
			log.String("kind", kind),
			log.String("name", name),
			log.Int("limit", p.limit))
		return osal.ErrNoMemory
	}
	p.allocated++
	return osal.OK
}

// Allocated returns how many primitives this provider has created.
func (p *Provider) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated
}

// NewMutex creates a named mutex.
func (p *Provider) NewMutex(name string) (osal.Mutex, osal.Status) {
	if st := p.allocate("mutex", name); !st.OK() {
		return nil, st
	}
	return newMutex(osal.TruncateName(name)), osal.OK
}

// NewSemaphore creates a counting semaphore holding initial counts below a
// ceiling. A zero ceiling is promoted to one (binary semaphore).
func (p *Provider) NewSemaphore(name string, initial, ceiling uint32) (osal.Semaphore, osal.Status) {
	if st := p.allocate("semaphore", name); !st.OK() {
		return nil, st
	}
	return newSemaphore(osal.TruncateName(name), initial, ceiling), osal.OK
}

// NewEventGroup creates an empty event group.
func (p *Provider) NewEventGroup(name string) (osal.EventGroup, osal.Status) {
	if st := p.allocate("event-group", name); !st.OK() {
		return nil, st
	}
	return newEventGroup(osal.TruncateName(name)), osal.OK
}

// NewThread creates a goroutine-backed thread around entry. Stack and
// priority options are accepted and ignored; the Go scheduler owns both.
func (p *Provider) NewThread(opts osal.ThreadOptions, entry func()) (osal.Thread, osal.Status) {
	if entry == nil {
		return nil, osal.ErrInternal
	}
	if st := p.allocate("thread", opts.Name); !st.OK() {
		return nil, st
	}
	return newThread(opts, entry), osal.OK
}

// NewTimer creates a deactivated timer. A NoWait period makes a one-shot.
func (p *Provider) NewTimer(name string, initial, period osal.Wait, fn func()) (osal.Timer, osal.Status) {
	if fn == nil {
		return nil, osal.ErrInternal
	}
	if st := p.allocate("timer", name); !st.OK() {
		return nil, st
	}
	return newTimer(osal.TruncateName(name), initial, period, fn), osal.OK
}

// Sleep delays the caller. There is no wake path; thread bodies should use
// Thread.Sleep instead.
func (p *Provider) Sleep(w osal.Wait) {
	if w == osal.NoWait {
		runtime.Gosched()
		return
	}
	time.Sleep(w.Duration())
}

// ElapsedMsec returns monotonic milliseconds since the provider was built.
func (p *Provider) ElapsedMsec() int64 {
	return time.Since(p.epoch).Milliseconds()
}

// TicksFromMsec converts milliseconds to ticks at the provider tick rate.
func (p *Provider) TicksFromMsec(msec int64) uint64 {
	if msec <= 0 {
		return 0
	}
	return uint64(msec) * uint64(p.rateHz) / 1000
}

// MsecFromTicks converts ticks to milliseconds at the provider tick rate.
func (p *Provider) MsecFromTicks(ticks uint64) int64 {
	return int64(ticks * 1000 / uint64(p.rateHz))
}

// TickRateHz returns the simulated tick rate.
func (p *Provider) TickRateHz() int64 {
	return p.rateHz
}

var (
	_ osal.Provider = (*Provider)(nil)
	_ osal.Clock    = (*Provider)(nil)
)
