package fleet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/N3b3x/hf-utils-rtos-wrap/internal/poll"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/worker"
)

var (
	errPreInit    = errors.New("hfrtos: pre-init hook failed")
	errPostInit   = errors.New("hfrtos: post-init hook failed")
	errIncomplete = errors.New("hfrtos: worker creation incomplete")
)

// registration pairs a worker with the creation options Initialize feeds
// to it.
type registration struct {
	id   int
	w    *worker.Worker
	opts worker.CreateOptions
}

// Manager drives a keyed collection of workers as one unit. The worker
// table is guarded by a named mutex, so the coordinator rides the same
// scoped-lock path as the primitives it manages. Group operations work
// on an ID-ordered snapshot of the table and never hold the lock while
// polling, so a slow verify cannot starve registration.
type Manager struct {
	name     string
	provider osal.Provider
	clock    osal.Clock
	lg       log.Logger

	preInit  func() bool
	postInit func() bool

	gate  guard.InitGate
	tmu   *guard.NamedMutex
	table map[int]registration
}

// NewManager returns an empty Manager. Workers are added with Register
// and created in one pass by Initialize.
func NewManager(name string, p osal.Provider, c osal.Clock, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := &Manager{
		name:     name,
		provider: p,
		clock:    c,
		lg:       o.lg,
		preInit:  o.preInit,
		postInit: o.postInit,
		table:    make(map[int]registration),
	}
	m.tmu = guard.NewNamedMutex(guard.DerivedName(name, "table"), p, guard.WithLogger(o.lg))
	return m
}

// Name returns the manager's name.
func (m *Manager) Name() string {
	return m.name
}

// Register stores w under id together with the creation options a later
// Initialize will use. IDs must be unique; the worker must be non-nil.
func (m *Manager) Register(id int, w *worker.Worker, opts worker.CreateOptions) error {
	if w == nil {
		return ErrNilWorker
	}
	g := guard.AcquireNamed(m.tmu, guard.WithLogger(m.lg))
	defer g.Release()
	if !g.Acquired() {
		return ErrLockUnavailable
	}
	if _, dup := m.table[id]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateWorker, id)
	}
	m.table[id] = registration{id: id, w: w, opts: opts}
	return nil
}

// Get returns the worker registered under id.
func (m *Manager) Get(id int) (*worker.Worker, bool) {
	g := guard.AcquireNamed(m.tmu, guard.WithLogger(m.lg))
	defer g.Release()
	if !g.Acquired() {
		return nil, false
	}
	r, ok := m.table[id]
	if !ok {
		return nil, false
	}
	return r.w, true
}

// Size reports how many workers are registered.
func (m *Manager) Size() int {
	g := guard.AcquireNamed(m.tmu, guard.WithLogger(m.lg))
	defer g.Release()
	if !g.Acquired() {
		return 0
	}
	return len(m.table)
}

// IDs returns the registered IDs in ascending order.
func (m *Manager) IDs() []int {
	regs, ok := m.snapshot()
	if !ok {
		return nil
	}
	ids := make([]int, len(regs))
	for i, r := range regs {
		ids[i] = r.id
	}
	return ids
}

// Initialize creates every registered worker, bracketed by the pre and
// post hooks. Per-worker failures do not abort the pass: every worker
// gets its creation attempt and the pass result is the AND of them all.
// A failed pass re-opens the gate so the next call retries; already
// created workers then report success without redoing work.
func (m *Manager) Initialize() bool {
	err := m.gate.Do(func() error {
		if m.preInit != nil && !m.preInit() {
			m.lg.Warn("pre-init hook failed", log.String("manager", m.name))
			return errPreInit
		}

		regs, ok := m.snapshot()
		if !ok {
			return ErrLockUnavailable
		}
		allCreated := true
		for _, r := range regs {
			// Create settles briefly on failure before returning.
			if !r.w.Create(r.opts) {
				m.lg.Error("worker creation failed",
					log.String("manager", m.name), log.String("worker", r.w.Name()))
				allCreated = false
			}
		}

		if m.postInit != nil && !m.postInit() {
			m.lg.Warn("post-init hook failed", log.String("manager", m.name))
			return errPostInit
		}
		if !allCreated {
			return errIncomplete
		}
		m.lg.Debug("fleet initialized",
			log.String("manager", m.name), log.Int("workers", len(regs)))
		return nil
	})
	return err == nil
}

// StartAll signals every worker to start and ANDs the results.
func (m *Manager) StartAll() bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	return m.signal(regs, "start", func(w *worker.Worker) bool { return w.Start() })
}

// StopAll signals every worker to stop and ANDs the results.
func (m *Manager) StopAll() bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	return m.signal(regs, "stop", func(w *worker.Worker) bool { return w.Stop() })
}

// StartSelected starts only the given IDs. Unregistered IDs are skipped.
func (m *Manager) StartSelected(ids ...int) bool {
	regs, ok := m.pick(ids)
	if !ok {
		return false
	}
	return m.signal(regs, "start", func(w *worker.Worker) bool { return w.Start() })
}

// StopSelected stops only the given IDs. Unregistered IDs are skipped.
func (m *Manager) StopSelected(ids ...int) bool {
	regs, ok := m.pick(ids)
	if !ok {
		return false
	}
	return m.signal(regs, "stop", func(w *worker.Worker) bool { return w.Stop() })
}

// StartAllExcept starts every worker except the given IDs.
func (m *Manager) StartAllExcept(ids ...int) bool {
	regs, ok := m.omit(ids)
	if !ok {
		return false
	}
	return m.signal(regs, "start", func(w *worker.Worker) bool { return w.Start() })
}

// StopAllExcept stops every worker except the given IDs.
func (m *Manager) StopAllExcept(ids ...int) bool {
	regs, ok := m.omit(ids)
	if !ok {
		return false
	}
	return m.signal(regs, "stop", func(w *worker.Worker) bool { return w.Stop() })
}

// StartAllAndVerify starts every worker, then polls until all of them
// report running, within one shared timeout. The result is the AND of
// the start signals and the poll outcome.
func (m *Manager) StartAllAndVerify(timeout osal.Wait) bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	return m.signalAndVerify(regs, timeout, "start",
		func(w *worker.Worker) bool { return w.Start() },
		func(w *worker.Worker) bool { return w.IsRunning() })
}

// StopAllAndVerify stops every worker, then polls until all of them
// report stopped, within one shared timeout.
func (m *Manager) StopAllAndVerify(timeout osal.Wait) bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	return m.signalAndVerify(regs, timeout, "stop",
		func(w *worker.Worker) bool { return w.Stop() },
		func(w *worker.Worker) bool { return w.IsStopped() })
}

// StartSelectedAndVerify starts the given IDs and polls until all of
// them report running, within one shared timeout.
func (m *Manager) StartSelectedAndVerify(timeout osal.Wait, ids ...int) bool {
	regs, ok := m.pick(ids)
	if !ok {
		return false
	}
	return m.signalAndVerify(regs, timeout, "start",
		func(w *worker.Worker) bool { return w.Start() },
		func(w *worker.Worker) bool { return w.IsRunning() })
}

// StopSelectedAndVerify stops the given IDs and polls until all of them
// report stopped, within one shared timeout.
func (m *Manager) StopSelectedAndVerify(timeout osal.Wait, ids ...int) bool {
	regs, ok := m.pick(ids)
	if !ok {
		return false
	}
	return m.signalAndVerify(regs, timeout, "stop",
		func(w *worker.Worker) bool { return w.Stop() },
		func(w *worker.Worker) bool { return w.IsStopped() })
}

// StartAllExceptAndVerify starts everything but the given IDs and polls
// until the started scope reports running, within one shared timeout.
func (m *Manager) StartAllExceptAndVerify(timeout osal.Wait, ids ...int) bool {
	regs, ok := m.omit(ids)
	if !ok {
		return false
	}
	return m.signalAndVerify(regs, timeout, "start",
		func(w *worker.Worker) bool { return w.Start() },
		func(w *worker.Worker) bool { return w.IsRunning() })
}

// StopAllExceptAndVerify stops everything but the given IDs and polls
// until the stopped scope reports stopped, within one shared timeout.
func (m *Manager) StopAllExceptAndVerify(timeout osal.Wait, ids ...int) bool {
	regs, ok := m.omit(ids)
	if !ok {
		return false
	}
	return m.signalAndVerify(regs, timeout, "stop",
		func(w *worker.Worker) bool { return w.Stop() },
		func(w *worker.Worker) bool { return w.IsStopped() })
}

// SuspendAll suspends every worker and ANDs the results.
func (m *Manager) SuspendAll() bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	return m.signal(regs, "suspend", func(w *worker.Worker) bool { return w.Suspend() })
}

// ResumeAll resumes every worker and ANDs the results.
func (m *Manager) ResumeAll() bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	return m.signal(regs, "resume", func(w *worker.Worker) bool { return w.Resume() })
}

// RunningCount reports how many registered workers are mid-cycle.
func (m *Manager) RunningCount() int {
	regs, ok := m.snapshot()
	if !ok {
		return 0
	}
	n := 0
	for _, r := range regs {
		if r.w.IsRunning() {
			n++
		}
	}
	return n
}

// AllRunning reports whether every registered worker is mid-cycle.
// Vacuously true for an empty table.
func (m *Manager) AllRunning() bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	for _, r := range regs {
		if !r.w.IsRunning() {
			return false
		}
	}
	return true
}

// AllStopped reports whether no registered worker is mid-cycle.
// Vacuously true for an empty table.
func (m *Manager) AllStopped() bool {
	regs, ok := m.snapshot()
	if !ok {
		return false
	}
	for _, r := range regs {
		if !r.w.IsStopped() {
			return false
		}
	}
	return true
}

// snapshot returns the registrations in ascending ID order.
func (m *Manager) snapshot() ([]registration, bool) {
	g := guard.AcquireNamed(m.tmu, guard.WithLogger(m.lg))
	defer g.Release()
	if !g.Acquired() {
		return nil, false
	}
	regs := make([]registration, 0, len(m.table))
	for _, r := range m.table {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].id < regs[j].id })
	return regs, true
}

// pick narrows the snapshot to the given IDs, skipping unknown ones.
func (m *Manager) pick(ids []int) ([]registration, bool) {
	regs, ok := m.snapshot()
	if !ok {
		return nil, false
	}
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]registration, 0, len(ids))
	for _, r := range regs {
		if _, in := want[r.id]; in {
			out = append(out, r)
		}
	}
	return out, true
}

// omit narrows the snapshot to everything but the given IDs.
func (m *Manager) omit(ids []int) ([]registration, bool) {
	regs, ok := m.snapshot()
	if !ok {
		return nil, false
	}
	skip := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}
	out := make([]registration, 0, len(regs))
	for _, r := range regs {
		if _, in := skip[r.id]; !in {
			out = append(out, r)
		}
	}
	return out, true
}

// signal applies op to every worker in scope, in ID order, and ANDs the
// results. Failures are logged per worker and do not short-circuit.
func (m *Manager) signal(scope []registration, verb string, op func(*worker.Worker) bool) bool {
	all := true
	for _, r := range scope {
		if op(r.w) {
			continue
		}
		m.lg.Warn(verb+" signal failed",
			log.String("manager", m.name), log.String("worker", r.w.Name()))
		all = false
	}
	return all
}

// signalAndVerify issues the signals, then polls the aggregate predicate
// every worker.VerifyIntervalMsec within one shared timeout. Workers that
// flip early stay counted while the rest catch up.
func (m *Manager) signalAndVerify(scope []registration, timeout osal.Wait, verb string,
	op, pred func(*worker.Worker) bool) bool {

	signaled := m.signal(scope, verb, op)

	started := m.clock.ElapsedMsec()
	verified := poll.Until(m.clock, m.provider, func() bool {
		for _, r := range scope {
			if !pred(r.w) {
				return false
			}
		}
		return true
	}, timeout, osal.WaitMsec(worker.VerifyIntervalMsec))

	if verified {
		m.lg.Debug(verb+" verified",
			log.String("manager", m.name),
			log.Int("workers", len(scope)),
			log.Int64("elapsed_msec", m.clock.ElapsedMsec()-started))
	} else {
		m.lg.Warn(verb+" not verified within budget",
			log.String("manager", m.name), log.String("budget", timeout.String()))
		for _, r := range scope {
			if !pred(r.w) {
				m.lg.Warn(verb+" not confirmed",
					log.String("manager", m.name), log.String("worker", r.w.Name()))
			}
		}
	}
	return signaled && verified
}
