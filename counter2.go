package lfseq

import "sync/atomic"

// AtomicCounter2 implements a two-counter cyclic-active reclamation
// protocol. It does not own any buffer itself; it only answers "is
// generation g still in use" and "has every reader of generation g
// departed" for a caller (FlipSequence) that owns exactly two buffer
// generations at a time.
//
// The zero value is not usable; construct with NewAtomicCounter2.
type AtomicCounter2 struct {
	c      [2]atomic.Uint32
	active atomic.Uint32 // 0 or 1; only the grower ever writes it, under AcquireInactive's exclusion
	_      [CacheLineSize]byte
}

// NewAtomicCounter2 returns a counter pair with generation 0 active and
// carrying an implicit "someone is always using the live buffer" token
// (the constructor does an unconditional increment on c[active]).
func NewAtomicCounter2() *AtomicCounter2 {
	cp := &AtomicCounter2{}
	cp.c[0].Store(1)
	return cp
}

// PinActive is the reader-side acquire-active operation: read active,
// bump its counter, and retry if active moved out from under us before
// the bump was visible. Returns the generation index the caller pinned;
// the caller must eventually call Unpin with the same index.
func (cp *AtomicCounter2) PinActive() int {
	for {
		gen := cp.active.Load()
		cp.c[gen].Add(1)
		if cp.active.Load() == gen {
			return int(gen)
		}
		// active flipped while we were bumping; our token counted
		// against the wrong (now-inactive, possibly being freed)
		// generation. Back it out and retry against the new active.
		cp.c[gen].Add(^uint32(0))
	}
}

// Unpin releases a token acquired by PinActive.
func (cp *AtomicCounter2) Unpin(gen int) {
	cp.c[gen].Add(^uint32(0))
}

// AcquireInactive is the grower-side operation: spin until the inactive
// generation's counter can be atomically moved from 0 to 1. It can only
// succeed once every reader that pinned the previously-active generation
// has released it, because a reader's PinActive on that generation only
// returns after bumping its counter above zero, and the counter can only
// fall back to zero once every such reader has called Unpin. Returns the
// generation index just claimed (the current inactive one).
func (cp *AtomicCounter2) AcquireInactive() int {
	inactive := 1 - int(cp.active.Load())
	for !cp.c[inactive].CompareAndSwap(0, 1) {
		spinWait()
	}
	return inactive
}

// Flip swaps which generation is active. Must be called by the grower
// exactly once per growth, after the new buffer is published and before
// ReleaseAsLast.
func (cp *AtomicCounter2) Flip() {
	old := cp.active.Load()
	cp.active.Store(1 - old)
}

// ReleaseAsLast drops the grower's own claim on generation gen (taken by
// AcquireInactive) once it is provably the last claim outstanding,
// freeing the caller to reclaim the buffer behind it. It spins until the
// counter reads exactly 1 (only the grower's own token) and then CASes it
// to 0.
func (cp *AtomicCounter2) ReleaseAsLast(gen int) {
	for !cp.c[gen].CompareAndSwap(1, 0) {
		spinWait()
	}
}
