package goos

import (
	"sync"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// mutex is a capacity-1 token channel. Holding the mutex means the token is
// in the channel; Acquire sends, Release receives.
type mutex struct {
	name string
	slot chan struct{}
	done chan struct{}
	del  sync.Once
}

func newMutex(name string) *mutex {
	return &mutex{
		name: name,
		slot: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (m *mutex) Acquire(w osal.Wait) osal.Status {
	select {
	case <-m.done:
		return osal.ErrDeleted
	default:
	}

	switch {
	case w == osal.NoWait:
		select {
		case m.slot <- struct{}{}:
			return osal.OK
		default:
			return osal.ErrTimeout
		}
	case w.Forever():
		select {
		case m.slot <- struct{}{}:
			return osal.OK
		case <-m.done:
			return osal.ErrDeleted
		}
	default:
		t := time.NewTimer(w.Duration())
		defer t.Stop()
		select {
		case m.slot <- struct{}{}:
			return osal.OK
		case <-m.done:
			return osal.ErrDeleted
		case <-t.C:
			return osal.ErrTimeout
		}
	}
}

func (m *mutex) Release() osal.Status {
	select {
	case <-m.done:
		return osal.ErrDeleted
	default:
	}

	select {
	case <-m.slot:
		return osal.OK
	default:
		return osal.ErrNotOwned
	}
}

func (m *mutex) Name() string {
	return m.name
}

func (m *mutex) Delete() osal.Status {
	st := osal.ErrDeleted
	m.del.Do(func() {
		close(m.done)
		st = osal.OK
	})
	return st
}

var _ osal.Mutex = (*mutex)(nil)
