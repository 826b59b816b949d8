package goos

import (
	"runtime"
	"sync"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// thread wraps a goroutine. The goroutine is spawned at creation but parks
// on startCh until Start releases it, which lets callers publish the handle
// before the body runs.
//
// Suspension is cooperative: Suspend raises a flag and the body parks at
// its next Sleep. Terminate marks the thread and unblocks its waits; a body
// that never sleeps will not observe it.
type thread struct {
	name  string
	entry func()

	mu         sync.Mutex
	cond       *sync.Cond
	state      osal.ThreadState
	suspended  bool
	started    bool
	terminated bool

	startCh chan struct{}
	wake    chan struct{}
	term    chan struct{}
	done    chan struct{}
}

func newThread(opts osal.ThreadOptions, entry func()) *thread {
	t := &thread{
		name:    osal.TruncateName(opts.Name),
		entry:   entry,
		state:   osal.ThreadReady,
		startCh: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		term:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	t.cond = sync.NewCond(&t.mu)
	go t.run()
	if opts.AutoStart {
		t.Start()
	}
	return t
}

func (t *thread) run() {
	defer close(t.done)

	select {
	case <-t.startCh:
	case <-t.term:
		return
	}

	t.setState(osal.ThreadRunning)
	t.entry()

	t.mu.Lock()
	if !t.terminated {
		t.state = osal.ThreadCompleted
	}
	t.mu.Unlock()
}

func (t *thread) setState(s osal.ThreadState) {
	t.mu.Lock()
	if !t.terminated {
		t.state = s
	}
	t.mu.Unlock()
}

func (t *thread) Start() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated {
		return osal.ErrDeleted
	}
	if t.started {
		return osal.OK
	}
	t.started = true
	close(t.startCh)
	return osal.OK
}

func (t *thread) Suspend() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated {
		return osal.ErrDeleted
	}
	t.suspended = true
	return osal.OK
}

func (t *thread) Resume() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated {
		return osal.ErrDeleted
	}
	if t.suspended {
		t.suspended = false
		t.cond.Broadcast()
	}
	return osal.OK
}

func (t *thread) Wake() osal.Status {
	select {
	case t.wake <- struct{}{}:
	default:
		// A wake is already pending; they merge.
	}
	return osal.OK
}

func (t *thread) Sleep(w osal.Wait) osal.Status {
	if st := t.gate(); !st.OK() {
		return st
	}

	t.setState(osal.ThreadSleeping)
	st := t.sleep(w)
	t.setState(osal.ThreadRunning)

	if g := t.gate(); !g.OK() {
		return g
	}
	return st
}

// gate parks the calling body while the thread is suspended. It reports
// ErrDeleted once the thread is terminated.
func (t *thread) gate() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.suspended && !t.terminated {
		t.state = osal.ThreadSuspended
		t.cond.Wait()
	}
	if t.terminated {
		return osal.ErrDeleted
	}
	t.state = osal.ThreadRunning
	return osal.OK
}

func (t *thread) sleep(w osal.Wait) osal.Status {
	switch {
	case w == osal.NoWait:
		runtime.Gosched()
		return osal.OK
	case w.Forever():
		select {
		case <-t.wake:
			return osal.OK
		case <-t.term:
			return osal.ErrDeleted
		}
	default:
		tm := time.NewTimer(w.Duration())
		defer tm.Stop()
		select {
		case <-t.wake:
			return osal.OK
		case <-t.term:
			return osal.ErrDeleted
		case <-tm.C:
			return osal.OK
		}
	}
}

func (t *thread) Terminate() osal.Status {
	t.mu.Lock()
	if t.terminated {
		t.mu.Unlock()
		return osal.OK
	}
	t.terminated = true
	t.suspended = false
	t.state = osal.ThreadTerminated
	t.cond.Broadcast()
	t.mu.Unlock()
	close(t.term)
	return osal.OK
}

func (t *thread) Delete() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.terminated && t.state != osal.ThreadCompleted {
		return osal.ErrInternal
	}
	return osal.OK
}

func (t *thread) State() osal.ThreadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.terminated:
		return osal.ThreadTerminated
	case t.suspended:
		return osal.ThreadSuspended
	default:
		return t.state
	}
}

func (t *thread) Name() string {
	return t.name
}

var _ osal.Thread = (*thread)(nil)
