package goos

import (
	"sync"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// timer fires fn after an initial delay, then once per period. A NoWait
// period makes a one-shot. Each activation runs on a fresh goroutine owned
// by its stop channel, so a stale loop from a previous activation can never
// clear the active flag of a newer one.
type timer struct {
	name string
	fn   func()

	mu      sync.Mutex
	initial osal.Wait
	period  osal.Wait
	active  bool
	deleted bool
	stop    chan struct{}
}

func newTimer(name string, initial, period osal.Wait, fn func()) *timer {
	return &timer{
		name:    name,
		fn:      fn,
		initial: initial,
		period:  period,
	}
}

func (t *timer) Activate() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.deleted {
		return osal.ErrDeleted
	}
	if t.active {
		return osal.OK
	}
	t.active = true
	t.stop = make(chan struct{})
	go t.loop(t.initial, t.period, t.stop)
	return osal.OK
}

func (t *timer) loop(initial, period osal.Wait, stop chan struct{}) {
	tm := time.NewTimer(initial.Duration())
	defer tm.Stop()
	select {
	case <-tm.C:
	case <-stop:
		return
	}
	t.fn()

	if period.Msec() <= 0 {
		t.mu.Lock()
		if t.stop == stop {
			t.active = false
		}
		t.mu.Unlock()
		return
	}

	tk := time.NewTicker(period.Duration())
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			t.fn()
		case <-stop:
			return
		}
	}
}

func (t *timer) Deactivate() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.deleted {
		return osal.ErrDeleted
	}
	if !t.active {
		return osal.OK
	}
	close(t.stop)
	t.active = false
	return osal.OK
}

func (t *timer) Change(initial, period osal.Wait) osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.deleted {
		return osal.ErrDeleted
	}
	if t.active {
		return osal.ErrInternal
	}
	t.initial = initial
	t.period = period
	return osal.OK
}

func (t *timer) Name() string {
	return t.name
}

func (t *timer) Delete() osal.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.deleted {
		return osal.ErrDeleted
	}
	if t.active {
		close(t.stop)
		t.active = false
	}
	t.deleted = true
	return osal.OK
}

var _ osal.Timer = (*timer)(nil)
