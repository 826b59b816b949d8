package poll

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal/goos"
)

func TestUntilImmediateSuccess(t *testing.T) {
	p := goos.New()
	start := time.Now()

	if !Until(p, p, func() bool { return true }, osal.WaitMsec(1000), osal.WaitMsec(10)) {
		t.Fatal("Until = false for an immediately true predicate")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("immediate success took %v", elapsed)
	}
}

func TestUntilEventualSuccess(t *testing.T) {
	p := goos.New()
	var flag atomic.Bool

	go func() {
		time.Sleep(30 * time.Millisecond)
		flag.Store(true)
	}()

	if !Until(p, p, flag.Load, osal.WaitMsec(2000), osal.WaitMsec(5)) {
		t.Fatal("Until = false for a predicate that turns true within budget")
	}
}

func TestUntilTimesOut(t *testing.T) {
	p := goos.New()
	start := time.Now()

	if Until(p, p, func() bool { return false }, osal.WaitMsec(50), osal.WaitMsec(5)) {
		t.Fatal("Until = true for a never-true predicate")
	}
	if elapsed := time.Since(start); elapsed < 45*time.Millisecond {
		t.Errorf("Until gave up after %v, want >= ~50ms", elapsed)
	}
}

func TestUntilNoWaitIsSingleProbe(t *testing.T) {
	p := goos.New()
	var calls atomic.Int32

	got := Until(p, p, func() bool {
		calls.Add(1)
		return false
	}, osal.NoWait, osal.WaitMsec(5))

	if got {
		t.Error("Until = true for a false predicate")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("predicate sampled %d times under NoWait, want 1", n)
	}
}
