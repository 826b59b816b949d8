package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal/goos"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

// scriptedRunner counts its hook invocations.
type scriptedRunner struct {
	setups    atomic.Int32
	steps     atomic.Int32
	cleanups  atomic.Int32
	stepDelay int64
	stepBody  func()
}

func (r *scriptedRunner) Setup() bool {
	r.setups.Add(1)
	return true
}

func (r *scriptedRunner) Step() int64 {
	r.steps.Add(1)
	if r.stepBody != nil {
		r.stepBody()
	}
	return r.stepDelay
}

func (r *scriptedRunner) Cleanup() bool {
	r.cleanups.Add(1)
	return true
}

func newTestWorker(t *testing.T, name string, r Runner, opts ...Option) *Worker {
	t.Helper()
	p := goos.New()
	w := New(name, r, p, p, opts...)
	if !w.Create(CreateOptions{StackBytes: 4096, Priority: 10}) {
		t.Fatalf("Create(%s) failed", name)
	}
	return w
}

func TestWorkerRunsOneCycle(t *testing.T) {
	r := &scriptedRunner{stepDelay: 2}
	w := newTestWorker(t, "one-cycle", r)
	defer w.Delete()

	if w.IsRunning() {
		t.Fatal("worker running before Start")
	}
	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}

	waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() >= 3 },
		"worker never reached three steps")

	if w.Phase() != PhaseRunning {
		t.Errorf("Phase = %s while stepping, want Running", w.Phase())
	}
	if !w.IsSetupComplete() {
		t.Error("IsSetupComplete = false while running")
	}
	if !w.StopAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StopAndVerify failed")
	}
	if got := r.setups.Load(); got != 1 {
		t.Errorf("setups = %d, want 1", got)
	}
	if got := r.cleanups.Load(); got != 1 {
		t.Errorf("cleanups = %d, want 1", got)
	}
	if !w.IsCleanupComplete() {
		t.Error("IsCleanupComplete = false after a verified stop")
	}
	if w.IsSetupComplete() {
		t.Error("IsSetupComplete = true after the cycle ended")
	}
	if w.Phase() != PhaseIdle {
		t.Errorf("Phase = %s after a verified stop, want Idle", w.Phase())
	}
}

func TestWorkerSetupAndCleanupOncePerCycle(t *testing.T) {
	r := &scriptedRunner{stepDelay: 1}
	w := newTestWorker(t, "two-cycles", r)
	defer w.Delete()

	for cycle := 1; cycle <= 2; cycle++ {
		if !w.StartAndVerify(osal.WaitMsec(2000)) {
			t.Fatalf("cycle %d: StartAndVerify failed", cycle)
		}
		waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() >= int32(cycle*2) },
			"worker never stepped")
		if !w.StopAndVerify(osal.WaitMsec(2000)) {
			t.Fatalf("cycle %d: StopAndVerify failed", cycle)
		}
		if got := r.setups.Load(); got != int32(cycle) {
			t.Errorf("cycle %d: setups = %d, want %d", cycle, got, cycle)
		}
		if got := r.cleanups.Load(); got != int32(cycle) {
			t.Errorf("cycle %d: cleanups = %d, want %d", cycle, got, cycle)
		}
	}
}

func TestStopBeforeStart(t *testing.T) {
	r := &scriptedRunner{stepDelay: 1}
	w := newTestWorker(t, "stop-first", r)
	defer w.Delete()

	if !w.Stop() {
		t.Fatal("Stop before Start failed")
	}
	if !w.IsStopped() {
		t.Error("IsStopped = false for a never-started worker")
	}
	if !w.StopAndVerify(osal.WaitMsec(200)) {
		t.Error("StopAndVerify failed for a never-started worker")
	}

	// The stale stop request must not abort the next cycle.
	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed after a stale stop")
	}
	waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() >= 2 },
		"worker never stepped after a stale stop")
	w.StopAndVerify(osal.WaitMsec(2000))
}

func TestZeroDelayStepIsStoppable(t *testing.T) {
	r := &scriptedRunner{stepDelay: 0}
	w := newTestWorker(t, "spinner", r)
	defer w.Delete()

	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}
	waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() >= 10 },
		"zero-delay worker never stepped")

	start := time.Now()
	if !w.StopAndVerify(osal.WaitMsec(200)) {
		t.Fatal("StopAndVerify failed for a zero-delay stepper")
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("stop took %v, want under the 200ms budget", elapsed)
	}
}

// vetoRunner withholds its start permission until allowed.
type vetoRunner struct {
	scriptedRunner
	allow atomic.Bool
}

func (v *vetoRunner) StartAction() bool {
	return v.allow.Load()
}

func TestStartActionVeto(t *testing.T) {
	r := &vetoRunner{scriptedRunner: scriptedRunner{stepDelay: 1}}
	w := newTestWorker(t, "vetoed", r)
	defer w.Delete()

	if w.Start() {
		t.Fatal("Start succeeded against a vetoing StartAction")
	}
	if w.StartAndVerify(osal.WaitMsec(100)) {
		t.Fatal("StartAndVerify succeeded against a vetoing StartAction")
	}
	if got := r.steps.Load(); got != 0 {
		t.Errorf("steps = %d for a never-started worker", got)
	}

	r.allow.Store(true)
	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed once the veto lifted")
	}
	w.StopAndVerify(osal.WaitMsec(2000))
}

// resetRunner records cycle-top resets.
type resetRunner struct {
	scriptedRunner
	resets atomic.Int32
}

func (r *resetRunner) ResetVariables() {
	r.resets.Add(1)
}

func TestResetVariablesRunsEachCycle(t *testing.T) {
	r := &resetRunner{scriptedRunner: scriptedRunner{stepDelay: 1}}
	w := newTestWorker(t, "resetting", r)
	defer w.Delete()

	for cycle := 1; cycle <= 2; cycle++ {
		if !w.StartAndVerify(osal.WaitMsec(2000)) {
			t.Fatalf("cycle %d: StartAndVerify failed", cycle)
		}
		if !w.StopAndVerify(osal.WaitMsec(2000)) {
			t.Fatalf("cycle %d: StopAndVerify failed", cycle)
		}
		if got := r.resets.Load(); got != int32(cycle) {
			t.Errorf("cycle %d: resets = %d, want %d", cycle, got, cycle)
		}
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	r := &scriptedRunner{stepDelay: 1}
	w := newTestWorker(t, "double-start", r)
	defer w.Delete()

	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}
	if !w.Start() {
		t.Error("Start on a running worker = false, want a true no-op")
	}
	if !w.StopAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StopAndVerify failed")
	}

	// The no-op start must not have banked a second start signal.
	time.Sleep(30 * time.Millisecond)
	if w.IsRunning() {
		t.Error("worker restarted itself after a no-op Start")
	}
	if got := r.setups.Load(); got != 1 {
		t.Errorf("setups = %d after one real cycle, want 1", got)
	}
}

func TestMarkSetupCompleteSkipsSetup(t *testing.T) {
	r := &scriptedRunner{stepDelay: 1}
	w := newTestWorker(t, "premarked", r)
	defer w.Delete()

	w.MarkSetupComplete()
	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}
	waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() >= 1 },
		"worker never stepped")
	if !w.StopAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StopAndVerify failed")
	}
	if got := r.setups.Load(); got != 0 {
		t.Errorf("setups = %d for a pre-marked cycle, want 0", got)
	}

	// Cleanup cleared the mark, so the next cycle sets up normally.
	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("second StartAndVerify failed")
	}
	w.StopAndVerify(osal.WaitMsec(2000))
	if got := r.setups.Load(); got != 1 {
		t.Errorf("setups = %d after the mark was consumed, want 1", got)
	}
}

func TestSuspendFreezesStepping(t *testing.T) {
	r := &scriptedRunner{stepDelay: 1}
	w := newTestWorker(t, "suspended", r)
	defer w.Delete()

	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}
	waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() >= 2 },
		"worker never stepped")

	if !w.Suspend() {
		t.Fatal("Suspend failed")
	}
	if !w.IsSuspended() {
		t.Error("IsSuspended = false after Suspend")
	}

	frozen := r.steps.Load()
	time.Sleep(30 * time.Millisecond)
	if got := r.steps.Load(); got > frozen+1 {
		t.Errorf("steps advanced from %d to %d while suspended", frozen, got)
	}

	if !w.Resume() {
		t.Fatal("Resume failed")
	}
	waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() > frozen+1 },
		"worker never stepped after Resume")

	w.StopAndVerify(osal.WaitMsec(2000))
}

func TestStopInterruptsLongStepDelay(t *testing.T) {
	r := &scriptedRunner{stepDelay: 10_000}
	w := newTestWorker(t, "long-delay", r)
	defer w.Delete()

	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}
	waitUntil(t, 2*time.Second, w.IsInStepDelay, "worker never entered its step delay")

	start := time.Now()
	if !w.StopAndVerify(osal.WaitMsec(500)) {
		t.Fatal("StopAndVerify failed against a 10s step delay")
	}
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Errorf("stop took %v, want the delay interrupted promptly", elapsed)
	}
}

func TestCreateFailureSettles(t *testing.T) {
	p := goos.New(goos.WithAllocationLimit(1))
	r := &scriptedRunner{stepDelay: 1}
	w := New("starved", r, p, p)

	// The semaphore allocates, the thread cannot.
	start := time.Now()
	if w.Create(CreateOptions{StackBytes: 1024}) {
		t.Fatal("Create succeeded with an exhausted allocator")
	}
	if elapsed := time.Since(start); elapsed < 4*time.Millisecond {
		t.Errorf("failed Create returned after %v, want the settle delay", elapsed)
	}
	if w.IsCreated() {
		t.Error("IsCreated = true after a failed Create")
	}
	if w.Start() {
		t.Error("Start succeeded on an uncreated worker")
	}
	if w.Delete() {
		t.Error("Delete reported success for an uncreated worker")
	}
}

type countingAccountant struct {
	mu      sync.Mutex
	created []string
	deleted []string
}

func (a *countingAccountant) WorkerCreated(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.created = append(a.created, name)
}

func (a *countingAccountant) WorkerDeleted(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, name)
}

func (a *countingAccountant) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.created), len(a.deleted)
}

func TestDeleteTearsDownAndAccounts(t *testing.T) {
	acct := &countingAccountant{}
	r := &scriptedRunner{stepDelay: 1}
	w := newTestWorker(t, "accounted", r, WithAccountant(acct))

	if created, _ := acct.counts(); created != 1 {
		t.Fatalf("accountant created = %d, want 1", created)
	}

	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}
	if !w.Delete() {
		t.Fatal("Delete failed")
	}
	if w.Delete() {
		t.Error("second Delete succeeded, want at-most-once teardown")
	}
	if created, deleted := acct.counts(); created != 1 || deleted != 1 {
		t.Errorf("accountant = %d created / %d deleted, want 1/1", created, deleted)
	}

	waitUntil(t, 2*time.Second, w.IsStopped, "deleted worker still running")
	if w.IsCreated() {
		t.Error("IsCreated = true after Delete")
	}
	if w.Start() {
		t.Error("Start succeeded on a deleted worker")
	}
}

func TestDeleteUnblocksParkedWorker(t *testing.T) {
	r := &scriptedRunner{stepDelay: 1}
	w := newTestWorker(t, "parked", r)

	// Never started: the cycle is parked on the start wait.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if !w.Delete() {
			t.Error("Delete failed for a parked worker")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Delete hung on a parked worker")
	}
	if got := r.setups.Load(); got != 0 {
		t.Errorf("setups = %d for a never-started worker", got)
	}
}

func TestStopCannotPreemptInFlightStep(t *testing.T) {
	release := make(chan struct{})
	r := &scriptedRunner{stepDelay: 1, stepBody: func() {
		<-release
	}}
	w := newTestWorker(t, "busy-step", r)
	defer w.Delete()

	if !w.StartAndVerify(osal.WaitMsec(2000)) {
		t.Fatal("StartAndVerify failed")
	}
	waitUntil(t, 2*time.Second, func() bool { return r.steps.Load() >= 1 },
		"worker never entered its step")

	// The step is blocked; a bounded stop verification must expire.
	if w.StopAndVerify(osal.WaitMsec(50)) {
		t.Fatal("StopAndVerify succeeded while Step was still in flight")
	}

	close(release)
	waitUntil(t, 2*time.Second, w.IsStopped, "worker never stopped after Step returned")
}
