package goos

import (
	"sync"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// semaphore is a buffered token channel sized to the ceiling.
type semaphore struct {
	name   string
	tokens chan struct{}
	done   chan struct{}
	del    sync.Once
}

func newSemaphore(name string, initial, ceiling uint32) *semaphore {
	if ceiling == 0 {
		ceiling = 1
	}
	if initial > ceiling {
		initial = ceiling
	}
	s := &semaphore{
		name:   name,
		tokens: make(chan struct{}, ceiling),
		done:   make(chan struct{}),
	}
	for i := uint32(0); i < initial; i++ {
		s.tokens <- struct{}{}
	}
	return s
}

func (s *semaphore) Take(w osal.Wait) osal.Status {
	select {
	case <-s.done:
		return osal.ErrDeleted
	default:
	}

	switch {
	case w == osal.NoWait:
		select {
		case <-s.tokens:
			return osal.OK
		default:
			return osal.ErrTimeout
		}
	case w.Forever():
		select {
		case <-s.tokens:
			return osal.OK
		case <-s.done:
			return osal.ErrDeleted
		}
	default:
		t := time.NewTimer(w.Duration())
		defer t.Stop()
		select {
		case <-s.tokens:
			return osal.OK
		case <-s.done:
			return osal.ErrDeleted
		case <-t.C:
			return osal.ErrTimeout
		}
	}
}

func (s *semaphore) Give() osal.Status {
	select {
	case <-s.done:
		return osal.ErrDeleted
	default:
	}

	// Saturate at the ceiling: a Give nobody is waiting for merges into
	// the pending count instead of accumulating past it.
	select {
	case s.tokens <- struct{}{}:
	default:
	}
	return osal.OK
}

func (s *semaphore) Count() uint32 {
	return uint32(len(s.tokens))
}

func (s *semaphore) Name() string {
	return s.name
}

func (s *semaphore) Delete() osal.Status {
	st := osal.ErrDeleted
	s.del.Do(func() {
		close(s.done)
		st = osal.OK
	})
	return st
}

var _ osal.Semaphore = (*semaphore)(nil)
