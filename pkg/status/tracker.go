package status

import (
	"fmt"
	"sync/atomic"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// activityBit is the notification raised whenever a stored flag changes.
const activityBit uint32 = 1 << 0

// Enum constrains table keys to integer-kinded enumeration types.
type Enum interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Entry is one row of Snapshot: an enum value, its display name and the
// flag it currently holds.
type Entry[E Enum] struct {
	Value E
	Name  string
	Flag  Flag
}

// Tracker maps enum values to a Flag each. The table is sized at
// construction and indexed by integer cast, so enum types with skipped
// values reserve unused slots that stay Unknown forever. All access is
// serialized by one lazily created mutex; the activity notification lives
// in one lazily created event group.
type Tracker[E Enum] struct {
	name     string
	capacity int
	provider osal.Provider
	lg       log.Logger
	namer    func(E) string

	gate    guard.InitGate
	mu      osal.Mutex
	events  osal.EventGroup
	deleted atomic.Bool

	// Guarded by mu.
	table     []Flag
	writerTok string
	readerTok string
}

// New returns a tracker with capacity slots, all Unknown. No OS resource
// is allocated until first use.
func New[E Enum](name string, capacity int, p osal.Provider, opts ...Option[E]) *Tracker[E] {
	o := defaultOptions[E]()
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Tracker[E]{
		name:     name,
		capacity: capacity,
		provider: p,
		lg:       o.lg,
		namer:    o.namer,
		table:    make([]Flag, capacity),
	}
}

// Name returns the tracker display name.
func (t *Tracker[E]) Name() string {
	return t.name
}

// Capacity returns the number of table slots.
func (t *Tracker[E]) Capacity() int {
	return t.capacity
}

// ensureInit creates the mutex and event group on first use. Each resource
// is created independently, so a partial failure only retries the missing
// piece on the next call.
func (t *Tracker[E]) ensureInit() bool {
	err := t.gate.Do(func() error {
		if t.mu == nil {
			m, st := t.provider.NewMutex(guard.DerivedName(t.name, "mutex"))
			if !st.OK() {
				return fmt.Errorf("tracker %q: create mutex: %s", t.name, st)
			}
			t.mu = m
		}
		if t.events == nil {
			g, st := t.provider.NewEventGroup(guard.DerivedName(t.name, "events"))
			if !st.OK() {
				return fmt.Errorf("tracker %q: create event group: %s", t.name, st)
			}
			t.events = g
		}
		return nil
	})
	if err != nil {
		t.lg.Error("tracker initialization failed", log.Err(err))
		return false
	}
	return true
}

// Set marks e as determined to exist. Open variant; fails once a writer
// permit is claimed.
func (t *Tracker[E]) Set(e E) bool {
	return t.setStatus(e, FlagSet, "")
}

// Clear marks e as determined not to exist.
func (t *Tracker[E]) Clear(e E) bool {
	return t.setStatus(e, FlagCleared, "")
}

// Ignore marks e as disregarded.
func (t *Tracker[E]) Ignore(e E) bool {
	return t.setStatus(e, FlagIgnored, "")
}

// MarkUnknown returns e to its initial state.
func (t *Tracker[E]) MarkUnknown(e E) bool {
	return t.setStatus(e, FlagUnknown, "")
}

// SetAllUnknown resets the whole table. The reset raises the activity
// notification exactly once, even when every entry was already Unknown.
func (t *Tracker[E]) SetAllUnknown() bool {
	return t.setAllUnknown("")
}

// IsSet reports whether e currently holds FlagSet. Open variant; fails
// once a reader permit is claimed.
func (t *Tracker[E]) IsSet(e E) bool {
	return t.is(e, FlagSet, "")
}

// AnySet reports whether any entry holds FlagSet.
func (t *Tracker[E]) AnySet() bool {
	return t.anyIs(FlagSet, "")
}

// IsIgnored reports whether e currently holds FlagIgnored.
func (t *Tracker[E]) IsIgnored(e E) bool {
	return t.is(e, FlagIgnored, "")
}

// Get returns the flag stored for e. It fails for values outside the
// table and on uninitialized state.
func (t *Tracker[E]) Get(e E) (Flag, bool) {
	return t.get(e, "")
}

// AwaitActivity blocks up to w for the next status-changing signal and
// consumes it. Repeated calls without an intervening change block again.
// The notification is not claim-gated; any caller may wait on it.
func (t *Tracker[E]) AwaitActivity(w osal.Wait) bool {
	if !t.ensureInit() {
		return false
	}
	_, st := t.events.Wait(activityBit, osal.WaitAnyConsume, w)
	return st.OK()
}

// ClearPending drops an unconsumed activity notification.
func (t *Tracker[E]) ClearPending() bool {
	if !t.ensureInit() {
		return false
	}
	return t.events.Clear(activityBit).OK()
}

// Snapshot copies the table for display. Claim-gated like the other
// reads.
func (t *Tracker[E]) Snapshot() ([]Entry[E], bool) {
	return t.snapshot("")
}

// LogAll dumps the whole table through the logger. Diagnostic surface:
// lock-protected but not claim-gated.
func (t *Tracker[E]) LogAll(reason string) {
	if !t.ensureInit() {
		return
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return
	}
	defer g.Release()

	t.lg.Info("status table",
		log.String("tracker", t.name), log.String("reason", reason))
	for i, f := range t.table {
		e := E(i)
		t.lg.Info("status entry",
			log.String("tracker", t.name),
			log.Int("index", i),
			log.String("value", t.nameOf(e)),
			log.String("flag", f.String()))
	}
}

// Delete tears down whatever was created. Only the first call after a
// successful initialization does anything.
func (t *Tracker[E]) Delete() bool {
	if !t.gate.Done() {
		return false
	}
	if t.deleted.Swap(true) {
		return false
	}
	ok := true
	if st := t.events.Delete(); !st.OK() {
		t.lg.Warn("event group delete failed",
			log.String("tracker", t.name), log.String("status", st.String()))
		ok = false
	}
	if st := t.mu.Delete(); !st.OK() {
		t.lg.Warn("mutex delete failed",
			log.String("tracker", t.name), log.String("status", st.String()))
		ok = false
	}
	return ok
}

// Internals shared by the open surface and the permits. tok carries the
// caller's claim; see claimAllows.

func (t *Tracker[E]) setStatus(e E, target Flag, tok string) bool {
	if !t.ensureInit() {
		return false
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()

	if !claimAllows(t.writerTok, tok) {
		t.lg.Warn("status write rejected by writer claim",
			log.String("tracker", t.name))
		return false
	}
	i, ok := t.index(e)
	if !ok {
		t.lg.Warn("enum value outside table",
			log.String("tracker", t.name),
			log.String("value", t.nameOf(e)),
			log.Int("capacity", t.capacity))
		return false
	}
	if t.table[i] == target {
		// Unchanged entries do not re-raise the activity notification.
		return true
	}
	prev := t.table[i]
	t.table[i] = target
	t.lg.Debug("status changed",
		log.String("tracker", t.name),
		log.String("value", t.nameOf(e)),
		log.String("from", prev.String()),
		log.String("to", target.String()))
	return t.events.Set(activityBit).OK()
}

func (t *Tracker[E]) setAllUnknown(tok string) bool {
	if !t.ensureInit() {
		return false
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()

	if !claimAllows(t.writerTok, tok) {
		t.lg.Warn("status reset rejected by writer claim",
			log.String("tracker", t.name))
		return false
	}
	for i := range t.table {
		t.table[i] = FlagUnknown
	}
	return t.events.Set(activityBit).OK()
}

func (t *Tracker[E]) get(e E, tok string) (Flag, bool) {
	if !t.ensureInit() {
		return FlagUnknown, false
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return FlagUnknown, false
	}
	defer g.Release()

	if !claimAllows(t.readerTok, tok) {
		return FlagUnknown, false
	}
	i, ok := t.index(e)
	if !ok {
		return FlagUnknown, false
	}
	return t.table[i], true
}

func (t *Tracker[E]) is(e E, f Flag, tok string) bool {
	got, ok := t.get(e, tok)
	return ok && got == f
}

func (t *Tracker[E]) anyIs(f Flag, tok string) bool {
	if !t.ensureInit() {
		return false
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()

	if !claimAllows(t.readerTok, tok) {
		return false
	}
	for _, got := range t.table {
		if got == f {
			return true
		}
	}
	return false
}

func (t *Tracker[E]) snapshot(tok string) ([]Entry[E], bool) {
	if !t.ensureInit() {
		return nil, false
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return nil, false
	}
	defer g.Release()

	if !claimAllows(t.readerTok, tok) {
		return nil, false
	}
	out := make([]Entry[E], len(t.table))
	for i, f := range t.table {
		e := E(i)
		out[i] = Entry[E]{Value: e, Name: t.nameOf(e), Flag: f}
	}
	return out, true
}

// index maps an enum value onto its table slot by integer cast. Values
// outside [0, capacity) have no slot.
func (t *Tracker[E]) index(e E) (int, bool) {
	i := int(e)
	if i < 0 || i >= t.capacity {
		return 0, false
	}
	return i, true
}

func (t *Tracker[E]) nameOf(e E) string {
	if t.namer != nil {
		return t.namer(e)
	}
	return fmt.Sprintf("%d", e)
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
