package worker

import (
	"sync/atomic"

	"github.com/N3b3x/hf-utils-rtos-wrap/internal/poll"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

const (
	// CreateFailureSettleMsec is slept after a failed resource creation
	// so callers retrying in a loop cannot hot-spin the allocator.
	CreateFailureSettleMsec = 5

	// VerifyIntervalMsec is the polling interval of the verify helpers.
	VerifyIntervalMsec = 10

	// SuspendSettleMsec is slept after a suspend or resume passes through
	// to the OS, so the state change is observable on return.
	SuspendSettleMsec = 2

	// DefaultStackBytes sizes the worker thread when CreateOptions leaves
	// StackBytes zero.
	DefaultStackBytes = 8192

	// DefaultPriority is used when CreateOptions leaves Priority zero.
	DefaultPriority = 10
)

// Worker drives a Runner through an indefinite setup/step/cleanup cycle
// on a provider thread. See the package documentation for the cycle
// contract.
type Worker struct {
	name     string
	runner   Runner
	provider osal.Provider
	clock    osal.Clock
	lg       log.Logger
	machine  *phaseMachine
	acct     Accountant

	startSem osal.Semaphore
	thread   osal.Thread
	created  atomic.Bool
	deleted  atomic.Bool

	running         atomic.Bool
	inStepDelay     atomic.Bool
	setupComplete   atomic.Bool
	cleanupComplete atomic.Bool
	stopRequested   atomic.Bool
}

// CreateOptions carries the caller-supplied thread parameters.
type CreateOptions struct {
	StackBytes       int
	Priority         int
	PreemptThreshold int
	TimeSliceMsec    int64
}

// New returns a worker around r. No OS resource is allocated until
// Create.
func New(name string, r Runner, p osal.Provider, c osal.Clock, opts ...Option) *Worker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Worker{
		name:     name,
		runner:   r,
		provider: p,
		clock:    c,
		lg:       o.lg,
		acct:     o.accountant,
		machine: &phaseMachine{
			phase:    PhaseIdle,
			name:     name,
			lg:       o.lg,
			onChange: o.onPhase,
		},
	}
}

// Name returns the worker display name.
func (w *Worker) Name() string {
	return w.name
}

// Create allocates the start semaphore and the OS thread. The thread is
// created parked and released only after the handle is stored, so the
// cycle never observes a half-built worker. A creation failure sleeps
// CreateFailureSettleMsec before returning false; the next call retries
// whatever is still missing.
func (w *Worker) Create(opts CreateOptions) bool {
	if w.runner == nil {
		w.lg.Error("create with nil runner", log.String("worker", w.name))
		return false
	}
	if w.deleted.Load() {
		return false
	}
	if w.created.Load() {
		return true
	}

	if w.startSem == nil {
		sem, st := w.provider.NewSemaphore(guard.DerivedName(w.name, "start"), 0, 1)
		if !st.OK() {
			w.lg.Error("start semaphore creation failed",
				log.String("worker", w.name), log.String("status", st.String()))
			w.provider.Sleep(osal.WaitMsec(CreateFailureSettleMsec))
			return false
		}
		w.startSem = sem
	}

	if opts.StackBytes == 0 {
		opts.StackBytes = DefaultStackBytes
	}
	if opts.Priority == 0 {
		opts.Priority = DefaultPriority
	}
	th, st := w.provider.NewThread(osal.ThreadOptions{
		Name:             w.name,
		StackBytes:       opts.StackBytes,
		Priority:         opts.Priority,
		PreemptThreshold: opts.PreemptThreshold,
		TimeSliceMsec:    opts.TimeSliceMsec,
	}, w.cycle)
	if !st.OK() {
		w.lg.Error("thread creation failed",
			log.String("worker", w.name), log.String("status", st.String()))
		w.provider.Sleep(osal.WaitMsec(CreateFailureSettleMsec))
		return false
	}
	w.thread = th
	w.created.Store(true)
	if w.acct != nil {
		w.acct.WorkerCreated(w.name)
	}
	if st := th.Start(); !st.OK() {
		w.lg.Error("thread release failed",
			log.String("worker", w.name), log.String("status", st.String()))
	}
	w.lg.Debug("worker created", log.String("worker", w.name))
	return true
}

// Start signals the worker to run a cycle. It reports true immediately if
// the worker is already running. A StartActioner veto aborts the signal.
func (w *Worker) Start() bool {
	if !w.created.Load() || w.deleted.Load() {
		return false
	}
	if w.running.Load() {
		return true
	}
	if sa, ok := w.runner.(StartActioner); ok && !sa.StartAction() {
		w.lg.Warn("start action vetoed start", log.String("worker", w.name))
		return false
	}
	return w.startSem.Give().OK()
}

// Stop requests a cooperative stop and nudges the thread out of a step
// delay, so the request is observed promptly even mid-sleep. It cannot
// preempt an in-flight Step.
func (w *Worker) Stop() bool {
	w.stopRequested.Store(true)
	if !w.created.Load() || w.deleted.Load() {
		return true
	}

	if w.IsSuspended() {
		if st := w.thread.Resume(); !st.OK() {
			w.lg.Warn("resume during stop failed",
				log.String("worker", w.name), log.String("status", st.String()))
		}
	}
	if st := w.thread.Wake(); !st.OK() {
		w.lg.Warn("wake during stop failed",
			log.String("worker", w.name), log.String("status", st.String()))
	}
	return true
}

// Suspend parks the worker at its next sleep point and settles briefly so
// the state change is observable on return. Failures are logged, not
// escalated.
func (w *Worker) Suspend() bool {
	if !w.created.Load() || w.deleted.Load() {
		return false
	}
	if st := w.thread.Suspend(); !st.OK() {
		w.lg.Warn("suspend failed",
			log.String("worker", w.name), log.String("status", st.String()))
		return false
	}
	w.provider.Sleep(osal.WaitMsec(SuspendSettleMsec))
	return true
}

// Resume lifts a suspension and settles briefly.
func (w *Worker) Resume() bool {
	if !w.created.Load() || w.deleted.Load() {
		return false
	}
	if st := w.thread.Resume(); !st.OK() {
		w.lg.Warn("resume failed",
			log.String("worker", w.name), log.String("status", st.String()))
		return false
	}
	w.provider.Sleep(osal.WaitMsec(SuspendSettleMsec))
	return true
}

// IsSuspended reports whether the OS thread is parked, counting a sleep
// as parked. An uncreated worker counts as suspended.
func (w *Worker) IsSuspended() bool {
	if !w.created.Load() {
		return true
	}
	s := w.thread.State()
	return s == osal.ThreadSuspended || s == osal.ThreadSleeping
}

// IsCreated reports whether the OS thread exists.
func (w *Worker) IsCreated() bool {
	return w.created.Load() && !w.deleted.Load()
}

// IsRunning reports whether a cycle is between its start signal and the
// end of its cleanup.
func (w *Worker) IsRunning() bool {
	return w.running.Load()
}

// IsStopped is the negation of IsRunning.
func (w *Worker) IsStopped() bool {
	return !w.running.Load()
}

// IsStopRequested reports whether a stop has been requested and not yet
// absorbed by a new start.
func (w *Worker) IsStopRequested() bool {
	return w.stopRequested.Load()
}

// IsInStepDelay reports whether the cycle is sleeping between steps.
func (w *Worker) IsInStepDelay() bool {
	return w.inStepDelay.Load()
}

// IsSetupComplete reports whether the current cycle has run Setup.
func (w *Worker) IsSetupComplete() bool {
	return w.setupComplete.Load()
}

// IsCleanupComplete reports whether the last cycle has run Cleanup.
func (w *Worker) IsCleanupComplete() bool {
	return w.cleanupComplete.Load()
}

// Phase returns the cycle's current phase.
func (w *Worker) Phase() Phase {
	return w.machine.current()
}

// MarkSetupComplete records setup as already done, so the next cycle
// skips Setup. For consumers that perform the setup out of band.
func (w *Worker) MarkSetupComplete() {
	w.setupComplete.Store(true)
}

// StartAndVerify starts the worker and polls IsRunning every
// VerifyIntervalMsec within timeout. It reports whether the worker was
// observed running.
func (w *Worker) StartAndVerify(timeout osal.Wait) bool {
	if !w.Start() {
		return false
	}
	started := w.clock.ElapsedMsec()
	ok := poll.Until(w.clock, w.provider, w.IsRunning, timeout, osal.WaitMsec(VerifyIntervalMsec))
	if ok {
		w.lg.Debug("start verified",
			log.String("worker", w.name),
			log.Int64("elapsed_msec", w.clock.ElapsedMsec()-started))
	} else {
		w.lg.Warn("start not verified within budget",
			log.String("worker", w.name), log.String("budget", timeout.String()))
	}
	return ok
}

// StopAndVerify stops the worker and polls IsStopped every
// VerifyIntervalMsec within timeout. It reports whether the worker was
// observed stopped, which includes the completion of its cleanup.
func (w *Worker) StopAndVerify(timeout osal.Wait) bool {
	if !w.Stop() {
		return false
	}
	started := w.clock.ElapsedMsec()
	ok := poll.Until(w.clock, w.provider, w.IsStopped, timeout, osal.WaitMsec(VerifyIntervalMsec))
	if ok {
		w.lg.Debug("stop verified",
			log.String("worker", w.name),
			log.Int64("elapsed_msec", w.clock.ElapsedMsec()-started))
	} else {
		w.lg.Warn("stop not verified within budget",
			log.String("worker", w.name), log.String("budget", timeout.String()))
	}
	return ok
}

// Delete tears the worker down: it unblocks a parked cycle, terminates
// the thread and deletes the OS resources. Only the first call does the
// work; the worker is unusable afterwards.
func (w *Worker) Delete() bool {
	if !w.created.Load() {
		return false
	}
	if w.deleted.Swap(true) {
		return false
	}
	w.stopRequested.Store(true)

	// Unblock a cycle parked on the start wait, then abort any sleep.
	if st := w.startSem.Give(); !st.OK() {
		w.lg.Warn("start signal during delete failed",
			log.String("worker", w.name), log.String("status", st.String()))
	}
	w.thread.Resume()
	w.thread.Wake()

	ok := true
	if st := w.thread.Terminate(); !st.OK() {
		w.lg.Warn("thread terminate failed",
			log.String("worker", w.name), log.String("status", st.String()))
		ok = false
	}
	if st := w.thread.Delete(); !st.OK() {
		w.lg.Warn("thread delete failed",
			log.String("worker", w.name), log.String("status", st.String()))
		ok = false
	}
	if st := w.startSem.Delete(); !st.OK() {
		w.lg.Warn("start semaphore delete failed",
			log.String("worker", w.name), log.String("status", st.String()))
		ok = false
	}
	if w.acct != nil {
		w.acct.WorkerDeleted(w.name)
	}
	w.lg.Debug("worker deleted", log.String("worker", w.name))
	return ok
}

// cycle is the thread entry. It mirrors the classic RTOS worker loop:
// park until started, set up once, step until stopped, clean up once,
// park again.
func (w *Worker) cycle() {
	for {
		w.running.Store(false)

		if !w.awaitStart() {
			return
		}

		if rv, ok := w.runner.(VariableResetter); ok {
			rv.ResetVariables()
		}

		w.running.Store(true)
		// A stale stop request from before this start must not abort the
		// fresh cycle.
		w.stopRequested.Store(false)
		w.cleanupComplete.Store(false)

		w.machine.transitionTo(PhaseSettingUp)
		if !w.setupComplete.Load() {
			if !w.runner.Setup() {
				w.lg.Warn("setup reported failure", log.String("worker", w.name))
			}
			w.setupComplete.Store(true)
		}

		w.machine.transitionTo(PhaseRunning)
		for !w.stopRequested.Load() && !w.deleted.Load() {
			delay := w.runner.Step()

			w.inStepDelay.Store(true)
			w.thread.Sleep(osal.WaitMsec(delay))
			w.inStepDelay.Store(false)
		}

		w.machine.transitionTo(PhaseCleaningUp)
		if !w.cleanupComplete.Load() {
			if !w.runner.Cleanup() {
				w.lg.Warn("cleanup reported failure", log.String("worker", w.name))
			}
			w.cleanupComplete.Store(true)
		}
		w.setupComplete.Store(false)

		w.machine.transitionTo(PhaseIdle)

		if w.deleted.Load() {
			w.running.Store(false)
			return
		}
	}
}

// awaitStart parks on the start semaphore. Deletion unblocks the park.
func (w *Worker) awaitStart() bool {
	st := w.startSem.Take(osal.WaitForever)
	if !st.OK() {
		if st != osal.ErrDeleted {
			w.lg.Error("start wait failed",
				log.String("worker", w.name), log.String("status", st.String()))
		}
		return false
	}
	return !w.deleted.Load()
}
