package goos

import (
	"testing"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

func TestMutexAcquireRelease(t *testing.T) {
	p := New()
	m, st := p.NewMutex("plain")
	if !st.OK() {
		t.Fatalf("NewMutex failed: %v", st)
	}

	if st := m.Acquire(osal.WaitMsec(100)); !st.OK() {
		t.Fatalf("Acquire failed: %v", st)
	}
	if st := m.Release(); !st.OK() {
		t.Fatalf("Release failed: %v", st)
	}
}

func TestMutexBoundedAcquireTimesOut(t *testing.T) {
	p := New()
	m, _ := p.NewMutex("held")

	if st := m.Acquire(osal.NoWait); !st.OK() {
		t.Fatalf("initial Acquire failed: %v", st)
	}

	start := time.Now()
	st := m.Acquire(osal.WaitMsec(30))
	if st != osal.ErrTimeout {
		t.Errorf("second Acquire status = %v, want %v", st, osal.ErrTimeout)
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("bounded acquire returned after %v, want >= ~30ms", elapsed)
	}
}

func TestMutexNoWaitWhileHeld(t *testing.T) {
	p := New()
	m, _ := p.NewMutex("busy")

	m.Acquire(osal.NoWait)
	if st := m.Acquire(osal.NoWait); st != osal.ErrTimeout {
		t.Errorf("NoWait acquire on held mutex = %v, want %v", st, osal.ErrTimeout)
	}
}

func TestMutexReleaseUnheld(t *testing.T) {
	p := New()
	m, _ := p.NewMutex("idle")

	if st := m.Release(); st != osal.ErrNotOwned {
		t.Errorf("Release on unheld mutex = %v, want %v", st, osal.ErrNotOwned)
	}
}

func TestMutexHandoffAcrossGoroutines(t *testing.T) {
	p := New()
	m, _ := p.NewMutex("handoff")

	m.Acquire(osal.NoWait)
	got := make(chan osal.Status, 1)
	go func() {
		got <- m.Acquire(osal.WaitMsec(2000))
	}()

	time.Sleep(10 * time.Millisecond)
	m.Release()

	select {
	case st := <-got:
		if !st.OK() {
			t.Errorf("waiter acquire = %v, want ok", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired the released mutex")
	}
}

func TestMutexDelete(t *testing.T) {
	p := New()
	m, _ := p.NewMutex("doomed")

	if st := m.Delete(); !st.OK() {
		t.Fatalf("Delete failed: %v", st)
	}
	if st := m.Delete(); st != osal.ErrDeleted {
		t.Errorf("second Delete = %v, want %v", st, osal.ErrDeleted)
	}
	if st := m.Acquire(osal.WaitMsec(10)); st != osal.ErrDeleted {
		t.Errorf("Acquire after Delete = %v, want %v", st, osal.ErrDeleted)
	}
}

func TestMutexDeleteUnblocksWaiter(t *testing.T) {
	p := New()
	m, _ := p.NewMutex("teardown")

	m.Acquire(osal.NoWait)
	got := make(chan osal.Status, 1)
	go func() {
		got <- m.Acquire(osal.WaitForever)
	}()

	time.Sleep(10 * time.Millisecond)
	m.Delete()

	select {
	case st := <-got:
		if st != osal.ErrDeleted {
			t.Errorf("waiter status = %v, want %v", st, osal.ErrDeleted)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("delete did not unblock the waiter")
	}
}
