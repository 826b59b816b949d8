package status

import (
	"github.com/google/uuid"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
)

// Writer is a transferable permit to mutate a claimed tracker. The zero
// value is useless; obtain one from ClaimWriter.
type Writer[E Enum] struct {
	tr  *Tracker[E]
	tok string
}

// Reader is a transferable permit to read a claimed tracker.
type Reader[E Enum] struct {
	tr  *Tracker[E]
	tok string
}

// ClaimWriter closes the open mutation surface and returns the only
// permit that may mutate the table. At most one live writer claim exists;
// a second claim fails until the first is revoked.
func (t *Tracker[E]) ClaimWriter() (*Writer[E], bool) {
	if !t.ensureInit() {
		return nil, false
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return nil, false
	}
	defer g.Release()

	if t.writerTok != "" {
		t.lg.Warn("writer already claimed", log.String("tracker", t.name))
		return nil, false
	}
	t.writerTok = uuid.NewString()
	return &Writer[E]{tr: t, tok: t.writerTok}, true
}

// ClaimReader closes the open read surface and returns the only permit
// that may read the table.
func (t *Tracker[E]) ClaimReader() (*Reader[E], bool) {
	if !t.ensureInit() {
		return nil, false
	}
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return nil, false
	}
	defer g.Release()

	if t.readerTok != "" {
		t.lg.Warn("reader already claimed", log.String("tracker", t.name))
		return nil, false
	}
	t.readerTok = uuid.NewString()
	return &Reader[E]{tr: t, tok: t.readerTok}, true
}

// Set marks e as determined to exist through the permit.
func (w *Writer[E]) Set(e E) bool {
	return w.tr.setStatus(e, FlagSet, w.tok)
}

// Clear marks e as determined not to exist through the permit.
func (w *Writer[E]) Clear(e E) bool {
	return w.tr.setStatus(e, FlagCleared, w.tok)
}

// Ignore marks e as disregarded through the permit.
func (w *Writer[E]) Ignore(e E) bool {
	return w.tr.setStatus(e, FlagIgnored, w.tok)
}

// MarkUnknown returns e to its initial state through the permit.
func (w *Writer[E]) MarkUnknown(e E) bool {
	return w.tr.setStatus(e, FlagUnknown, w.tok)
}

// SetAllUnknown resets the whole table through the permit.
func (w *Writer[E]) SetAllUnknown() bool {
	return w.tr.setAllUnknown(w.tok)
}

// Revoke reopens the tracker's mutation surface. The permit is dead
// afterwards; every call through it fails.
func (w *Writer[E]) Revoke() bool {
	return w.tr.revokeWriter(w.tok)
}

// IsSet reports whether e holds FlagSet, through the permit.
func (r *Reader[E]) IsSet(e E) bool {
	return r.tr.is(e, FlagSet, r.tok)
}

// AnySet reports whether any entry holds FlagSet, through the permit.
func (r *Reader[E]) AnySet() bool {
	return r.tr.anyIs(FlagSet, r.tok)
}

// IsIgnored reports whether e holds FlagIgnored, through the permit.
func (r *Reader[E]) IsIgnored(e E) bool {
	return r.tr.is(e, FlagIgnored, r.tok)
}

// Get returns the flag stored for e, through the permit.
func (r *Reader[E]) Get(e E) (Flag, bool) {
	return r.tr.get(e, r.tok)
}

// Snapshot copies the table through the permit.
func (r *Reader[E]) Snapshot() ([]Entry[E], bool) {
	return r.tr.snapshot(r.tok)
}

// Revoke reopens the tracker's read surface.
func (r *Reader[E]) Revoke() bool {
	return r.tr.revokeReader(r.tok)
}

func (t *Tracker[E]) revokeWriter(tok string) bool {
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()

	if tok == "" || t.writerTok != tok {
		return false
	}
	t.writerTok = ""
	return true
}

func (t *Tracker[E]) revokeReader(tok string) bool {
	g := guard.Acquire(t.mu, guard.WithLogger(t.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()

	if tok == "" || t.readerTok != tok {
		return false
	}
	t.readerTok = ""
	return true
}
