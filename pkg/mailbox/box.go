package mailbox

import (
	"fmt"
	"sync/atomic"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// dataBit is the data-available notification.
const dataBit uint32 = 1 << 0

// Box is a single-slot timestamped mailbox. All slot access is serialized
// by one lazily created mutex; the data-available notification lives in one
// lazily created event group. See the package documentation for the
// mailbox-not-queue semantics.
type Box[T any] struct {
	name     string
	provider osal.Provider
	clock    osal.Clock
	lg       log.Logger

	gate    guard.InitGate
	mu      osal.Mutex
	events  osal.EventGroup
	deleted atomic.Bool

	// Guarded by mu.
	value     T
	stampMsec int64
	seq       uint64
	writerTok string
	readerTok string
}

// New returns an empty box. No OS resource is allocated until first use.
func New[T any](name string, p osal.Provider, c osal.Clock, opts ...Option) *Box[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Box[T]{
		name:     name,
		provider: p,
		clock:    c,
		lg:       o.lg,
	}
}

// Name returns the box display name.
func (b *Box[T]) Name() string {
	return b.name
}

// ensureInit creates the mutex and event group on first use. Each resource
// is created independently, so a partial failure only retries the missing
// piece on the next call.
func (b *Box[T]) ensureInit() bool {
	err := b.gate.Do(func() error {
		if b.mu == nil {
			m, st := b.provider.NewMutex(guard.DerivedName(b.name, "mutex"))
			if !st.OK() {
				return fmt.Errorf("mailbox %q: create mutex: %s", b.name, st)
			}
			b.mu = m
		}
		if b.events == nil {
			g, st := b.provider.NewEventGroup(guard.DerivedName(b.name, "events"))
			if !st.OK() {
				return fmt.Errorf("mailbox %q: create event group: %s", b.name, st)
			}
			b.events = g
		}
		return nil
	})
	if err != nil {
		b.lg.Error("mailbox initialization failed", log.Err(err))
		return false
	}
	return true
}

// Set stores v with the current timestamp and raises the data-available
// notification. This is the open variant; it fails once a writer permit is
// claimed.
func (b *Box[T]) Set(v T) bool {
	return b.put(v, "")
}

// Fetch waits up to w for an unconsumed update, consumes the notification
// and returns the current value. A second Fetch with no intervening Set
// blocks again and fails at the budget. Fails immediately once a reader
// permit is claimed; non-permitted callers never block.
func (b *Box[T]) Fetch(w osal.Wait) (T, bool) {
	v, _, ok := b.take(w, "")
	return v, ok
}

// FetchStamped is Fetch plus the stored timestamp.
func (b *Box[T]) FetchStamped(w osal.Wait) (T, int64, bool) {
	return b.take(w, "")
}

// Recent snapshots the slot without waiting or consuming the notification.
// Before any Set it reports the zero value.
func (b *Box[T]) Recent() (T, bool) {
	v, _, ok := b.snapshot("")
	return v, ok
}

// RecentStamped is Recent plus the stored timestamp.
func (b *Box[T]) RecentStamped() (T, int64, bool) {
	return b.snapshot("")
}

// RecentIfNewer returns the value only if its timestamp strictly exceeds
// sinceMsec; at equality it fails. The notification is left untouched.
func (b *Box[T]) RecentIfNewer(sinceMsec int64) (T, bool) {
	v, _, ok := b.recentIfNewer(sinceMsec, "")
	return v, ok
}

// NewerThan reports whether the stored timestamp strictly exceeds
// sinceMsec, without copying the value.
func (b *Box[T]) NewerThan(sinceMsec int64) bool {
	_, _, ok := b.recentIfNewer(sinceMsec, "")
	return ok
}

// Seq returns the number of Sets applied so far. Consumers comparing Seq
// across Fetches can detect overwritten updates.
func (b *Box[T]) Seq() uint64 {
	if !b.ensureInit() {
		return 0
	}
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return 0
	}
	defer g.Release()
	return b.seq
}

// ClearPending drops an unconsumed data-available notification.
func (b *Box[T]) ClearPending() bool {
	if !b.ensureInit() {
		return false
	}
	return b.events.Clear(dataBit).OK()
}

// Delete tears down whatever was created. Only the first call after a
// successful initialization does anything.
func (b *Box[T]) Delete() bool {
	if !b.gate.Done() {
		return false
	}
	if b.deleted.Swap(true) {
		return false
	}
	ok := true
	if st := b.events.Delete(); !st.OK() {
		b.lg.Warn("event group delete failed",
			log.String("box", b.name), log.String("status", st.String()))
		ok = false
	}
	if st := b.mu.Delete(); !st.OK() {
		b.lg.Warn("mutex delete failed",
			log.String("box", b.name), log.String("status", st.String()))
		ok = false
	}
	return ok
}

// put implements Set for both the open surface (empty token) and writer
// permits. An open call requires no claim; a permit call requires the live
// matching claim, so revoked permits fail closed.
func (b *Box[T]) put(v T, tok string) bool {
	if !b.ensureInit() {
		return false
	}
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()

	if !claimAllows(b.writerTok, tok) {
		b.lg.Warn("set rejected by writer claim", log.String("box", b.name))
		return false
	}
	b.value = v
	b.stampMsec = b.clock.ElapsedMsec()
	b.seq++
	return b.events.Set(dataBit).OK()
}

func (b *Box[T]) take(w osal.Wait, tok string) (T, int64, bool) {
	var zero T
	if !b.ensureInit() {
		return zero, 0, false
	}
	if !b.readerAllowed(tok) {
		return zero, 0, false
	}
	if _, st := b.events.Wait(dataBit, osal.WaitAnyConsume, w); !st.OK() {
		return zero, 0, false
	}
	return b.snapshot(tok)
}

func (b *Box[T]) snapshot(tok string) (T, int64, bool) {
	var zero T
	if !b.ensureInit() {
		return zero, 0, false
	}
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return zero, 0, false
	}
	defer g.Release()

	if !claimAllows(b.readerTok, tok) {
		b.lg.Warn("read rejected by reader claim", log.String("box", b.name))
		return zero, 0, false
	}
	return b.value, b.stampMsec, true
}

func (b *Box[T]) recentIfNewer(sinceMsec int64, tok string) (T, int64, bool) {
	var zero T
	if !b.ensureInit() {
		return zero, 0, false
	}
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return zero, 0, false
	}
	defer g.Release()

	if !claimAllows(b.readerTok, tok) {
		return zero, 0, false
	}
	if b.stampMsec > sinceMsec {
		return b.value, b.stampMsec, true
	}
	return zero, 0, false
}

// readerAllowed pre-checks the reader claim so rejected callers fail
// immediately instead of blocking on the notification first.
func (b *Box[T]) readerAllowed(tok string) bool {
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()
	return claimAllows(b.readerTok, tok)
}

// claimAllows decides whether a call carrying tok may pass a side whose
// current claim is held. Open calls (empty tok) require no claim; permit
// calls require the live matching claim.
func claimAllows(held, tok string) bool {
	if tok == "" {
		return held == ""
	}
	return held == tok
}
