package mailbox

import (
	"testing"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

func TestWriterClaimExcludesOpenSet(t *testing.T) {
	b, _ := newTestBox(t)

	w, ok := b.ClaimWriter()
	if !ok {
		t.Fatal("ClaimWriter failed")
	}
	if b.Set(reading{Sample: 1}) {
		t.Error("open Set succeeded while the writer side is claimed")
	}
	if !w.Set(reading{Sample: 2}) {
		t.Error("permit Set failed")
	}
	if v, ok := b.Recent(); !ok || v.Sample != 2 {
		t.Errorf("Recent = %+v ok=%v, want the permit's value", v, ok)
	}
}

func TestSecondWriterClaimFails(t *testing.T) {
	b, _ := newTestBox(t)

	if _, ok := b.ClaimWriter(); !ok {
		t.Fatal("first ClaimWriter failed")
	}
	if _, ok := b.ClaimWriter(); ok {
		t.Error("second ClaimWriter succeeded while the first claim is live")
	}
}

func TestWriterRevokeRestoresOpenAccess(t *testing.T) {
	b, _ := newTestBox(t)

	w, ok := b.ClaimWriter()
	if !ok {
		t.Fatal("ClaimWriter failed")
	}
	if !w.Revoke() {
		t.Fatal("Revoke failed")
	}
	if !b.Set(reading{Sample: 1}) {
		t.Error("open Set failed after the claim was revoked")
	}

	// The dead permit must not work even though the box is open again.
	if w.Set(reading{Sample: 9}) {
		t.Error("revoked permit Set succeeded")
	}
	if w.Revoke() {
		t.Error("second Revoke succeeded")
	}
}

func TestStalePermitAfterReclaim(t *testing.T) {
	b, _ := newTestBox(t)

	first, _ := b.ClaimWriter()
	first.Revoke()
	second, ok := b.ClaimWriter()
	if !ok {
		t.Fatal("reclaim after revoke failed")
	}
	if first.Set(reading{Sample: 1}) {
		t.Error("stale permit wrote through a newer claim")
	}
	if !second.Set(reading{Sample: 2}) {
		t.Error("live permit Set failed")
	}
}

func TestReaderClaimGatesReads(t *testing.T) {
	b, _ := newTestBox(t)
	b.Set(reading{Sample: 1})

	r, ok := b.ClaimReader()
	if !ok {
		t.Fatal("ClaimReader failed")
	}

	// Open readers fail immediately, even with a budget on the table.
	start := time.Now()
	if _, ok := b.Fetch(osal.WaitMsec(500)); ok {
		t.Error("open Fetch succeeded while the reader side is claimed")
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("rejected Fetch took %v, want an immediate failure", elapsed)
	}
	if _, ok := b.Recent(); ok {
		t.Error("open Recent succeeded while the reader side is claimed")
	}

	if v, ok := r.Fetch(osal.NoWait); !ok || v.Sample != 1 {
		t.Errorf("permit Fetch = %+v ok=%v, want sample 1", v, ok)
	}
}

func TestReaderPermitReadSurface(t *testing.T) {
	b, _ := newTestBox(t)
	b.Set(reading{Sample: 3})

	r, ok := b.ClaimReader()
	if !ok {
		t.Fatal("ClaimReader failed")
	}

	v, stamp, ok := r.RecentStamped()
	if !ok || v.Sample != 3 {
		t.Fatalf("RecentStamped = %+v ok=%v, want sample 3", v, ok)
	}
	if _, ok := r.RecentIfNewer(stamp); ok {
		t.Error("RecentIfNewer(stamp) succeeded at equality through the permit")
	}
	if !r.NewerThan(stamp - 1) {
		t.Error("NewerThan(stamp-1) failed through the permit")
	}
	if _, _, ok := r.FetchStamped(osal.NoWait); !ok {
		t.Error("FetchStamped failed through the permit")
	}
}

func TestReaderRevokeRestoresOpenReads(t *testing.T) {
	b, _ := newTestBox(t)
	b.Set(reading{Sample: 1})

	r, _ := b.ClaimReader()
	if !r.Revoke() {
		t.Fatal("Revoke failed")
	}
	if _, ok := b.Recent(); !ok {
		t.Error("open Recent failed after the reader claim was revoked")
	}
	if _, ok := r.Recent(); ok {
		t.Error("revoked reader permit still reads")
	}
}

func TestIndependentWriterAndReaderClaims(t *testing.T) {
	b, _ := newTestBox(t)

	w, ok := b.ClaimWriter()
	if !ok {
		t.Fatal("ClaimWriter failed")
	}
	r, ok := b.ClaimReader()
	if !ok {
		t.Fatal("ClaimReader failed alongside a writer claim")
	}

	if !w.Set(reading{Sample: 5}) {
		t.Fatal("permit Set failed")
	}
	if v, ok := r.Fetch(osal.WaitMsec(500)); !ok || v.Sample != 5 {
		t.Errorf("permit Fetch = %+v ok=%v, want sample 5", v, ok)
	}
}
