package osal

import (
	"strings"
	"testing"
)

func TestStatusOK(t *testing.T) {
	if !OK.OK() {
		t.Error("OK.OK() = false, want true")
	}
	for _, s := range []Status{ErrTimeout, ErrNoMemory, ErrInvalidHandle, ErrNotOwned, ErrDeleted, ErrInternal} {
		if s.OK() {
			t.Errorf("%v.OK() = true, want false", s)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{OK, "ok"},
		{ErrTimeout, "timeout"},
		{ErrNoMemory, "no-memory"},
		{ErrInvalidHandle, "invalid-handle"},
		{ErrNotOwned, "not-owned"},
		{ErrDeleted, "deleted"},
		{ErrInternal, "internal"},
		{Status(200), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestWaitOptionPredicates(t *testing.T) {
	tests := []struct {
		opt      WaitOption
		all      bool
		consumes bool
	}{
		{WaitAny, false, false},
		{WaitAnyConsume, false, true},
		{WaitAll, true, false},
		{WaitAllConsume, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.opt.String(), func(t *testing.T) {
			if got := tt.opt.RequiresAll(); got != tt.all {
				t.Errorf("RequiresAll() = %v, want %v", got, tt.all)
			}
			if got := tt.opt.Consumes(); got != tt.consumes {
				t.Errorf("Consumes() = %v, want %v", got, tt.consumes)
			}
		})
	}
}

func TestThreadStateString(t *testing.T) {
	states := map[ThreadState]string{
		ThreadReady:      "ready",
		ThreadRunning:    "running",
		ThreadSuspended:  "suspended",
		ThreadSleeping:   "sleeping",
		ThreadTerminated: "terminated",
		ThreadCompleted:  "completed",
		ThreadUnknown:    "unknown",
	}

	for s, want := range states {
		if got := s.String(); got != want {
			t.Errorf("ThreadState(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestTruncateName(t *testing.T) {
	short := "mailbox-mutex"
	if got := TruncateName(short); got != short {
		t.Errorf("TruncateName(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("x", MaxNameLen+10)
	got := TruncateName(long)
	if len(got) != MaxNameLen {
		t.Errorf("TruncateName long name length = %d, want %d", len(got), MaxNameLen)
	}
	if !strings.HasPrefix(long, got) {
		t.Error("TruncateName must keep the leading bytes")
	}
}
