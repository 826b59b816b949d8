package mailbox

import (
	"github.com/google/uuid"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// Writer is a transferable permit to mutate a claimed box. The zero value
// is useless; obtain one from ClaimWriter.
type Writer[T any] struct {
	box *Box[T]
	tok string
}

// Reader is a transferable permit to read a claimed box.
type Reader[T any] struct {
	box *Box[T]
	tok string
}

// ClaimWriter closes the open Set surface and returns the only permit that
// may mutate the box. At most one live writer claim exists; a second claim
// fails until the first is revoked.
func (b *Box[T]) ClaimWriter() (*Writer[T], bool) {
	if !b.ensureInit() {
		return nil, false
	}
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return nil, false
	}
	defer g.Release()

	if b.writerTok != "" {
		b.lg.Warn("writer already claimed", log.String("box", b.name))
		return nil, false
	}
	b.writerTok = uuid.NewString()
	return &Writer[T]{box: b, tok: b.writerTok}, true
}

// ClaimReader closes the open read surface and returns the only permit
// that may read the box.
func (b *Box[T]) ClaimReader() (*Reader[T], bool) {
	if !b.ensureInit() {
		return nil, false
	}
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return nil, false
	}
	defer g.Release()

	if b.readerTok != "" {
		b.lg.Warn("reader already claimed", log.String("box", b.name))
		return nil, false
	}
	b.readerTok = uuid.NewString()
	return &Reader[T]{box: b, tok: b.readerTok}, true
}

// Set stores v through the permit.
func (w *Writer[T]) Set(v T) bool {
	return w.box.put(v, w.tok)
}

// Revoke reopens the box's write surface. The permit is dead afterwards;
// every later call through it fails.
func (w *Writer[T]) Revoke() bool {
	return w.box.revokeWriter(w.tok)
}

// Fetch is the consuming read through the permit.
func (r *Reader[T]) Fetch(w osal.Wait) (T, bool) {
	v, _, ok := r.box.take(w, r.tok)
	return v, ok
}

// FetchStamped is Fetch plus the stored timestamp.
func (r *Reader[T]) FetchStamped(w osal.Wait) (T, int64, bool) {
	return r.box.take(w, r.tok)
}

// Recent snapshots the slot through the permit.
func (r *Reader[T]) Recent() (T, bool) {
	v, _, ok := r.box.snapshot(r.tok)
	return v, ok
}

// RecentStamped is Recent plus the stored timestamp.
func (r *Reader[T]) RecentStamped() (T, int64, bool) {
	return r.box.snapshot(r.tok)
}

// RecentIfNewer returns the value only if its timestamp strictly exceeds
// sinceMsec.
func (r *Reader[T]) RecentIfNewer(sinceMsec int64) (T, bool) {
	v, _, ok := r.box.recentIfNewer(sinceMsec, r.tok)
	return v, ok
}

// NewerThan reports whether the stored timestamp strictly exceeds
// sinceMsec.
func (r *Reader[T]) NewerThan(sinceMsec int64) bool {
	_, _, ok := r.box.recentIfNewer(sinceMsec, r.tok)
	return ok
}

// Revoke reopens the box's read surface. The permit is dead afterwards.
func (r *Reader[T]) Revoke() bool {
	return r.box.revokeReader(r.tok)
}

func (b *Box[T]) revokeWriter(tok string) bool {
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()
	if tok == "" || b.writerTok != tok {
		return false
	}
	b.writerTok = ""
	return true
}

func (b *Box[T]) revokeReader(tok string) bool {
	g := guard.Acquire(b.mu, guard.WithLogger(b.lg))
	if !g.Acquired() {
		return false
	}
	defer g.Release()
	if tok == "" || b.readerTok != tok {
		return false
	}
	b.readerTok = ""
	return true
}
