package goos

import (
	"sync"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// eventGroup holds a bit word behind a mutex. Every Set closes and replaces
// the broadcast channel, so all waiters wake and re-evaluate their own
// AND/OR condition against the fresh word.
type eventGroup struct {
	name string
	done chan struct{}

	mu      sync.Mutex
	bits    uint32
	bcast   chan struct{}
	deleted bool
}

func newEventGroup(name string) *eventGroup {
	return &eventGroup{
		name:  name,
		done:  make(chan struct{}),
		bcast: make(chan struct{}),
	}
}

func (g *eventGroup) Set(bits uint32) osal.Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleted {
		return osal.ErrDeleted
	}
	g.bits |= bits
	close(g.bcast)
	g.bcast = make(chan struct{})
	return osal.OK
}

func (g *eventGroup) Clear(bits uint32) osal.Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleted {
		return osal.ErrDeleted
	}
	g.bits &^= bits
	return osal.OK
}

func (g *eventGroup) Wait(bits uint32, opt osal.WaitOption, w osal.Wait) (uint32, osal.Status) {
	if bits == 0 {
		return 0, osal.ErrInternal
	}

	var deadline time.Time
	if !w.Forever() && w != osal.NoWait {
		deadline = time.Now().Add(w.Duration())
	}

	for {
		g.mu.Lock()
		if g.deleted {
			g.mu.Unlock()
			return 0, osal.ErrDeleted
		}
		got := g.bits & bits
		satisfied := got != 0
		if opt.RequiresAll() {
			satisfied = got == bits
		}
		if satisfied {
			if opt.Consumes() {
				g.bits &^= got
			}
			g.mu.Unlock()
			return got, osal.OK
		}
		ch := g.bcast
		g.mu.Unlock()

		if w == osal.NoWait {
			return got, osal.ErrTimeout
		}
		if w.Forever() {
			select {
			case <-ch:
			case <-g.done:
				return 0, osal.ErrDeleted
			}
			continue
		}

		remain := time.Until(deadline)
		if remain <= 0 {
			return got, osal.ErrTimeout
		}
		t := time.NewTimer(remain)
		select {
		case <-ch:
			t.Stop()
		case <-g.done:
			t.Stop()
			return 0, osal.ErrDeleted
		case <-t.C:
			// Budget spent; loop once more for a final check.
		}
	}
}

func (g *eventGroup) Peek() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bits
}

func (g *eventGroup) Name() string {
	return g.name
}

func (g *eventGroup) Delete() osal.Status {
	g.mu.Lock()
	if g.deleted {
		g.mu.Unlock()
		return osal.ErrDeleted
	}
	g.deleted = true
	g.mu.Unlock()
	close(g.done)
	return osal.OK
}

var _ osal.EventGroup = (*eventGroup)(nil)
