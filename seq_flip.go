package lfseq

import "sync/atomic"

// flipBuffer is one generation of backing storage for a FlipSequence.
type flipBuffer[T Elem] struct {
	data []T // atomically loaded/stored per-slot via atomic operations on data[i]
}

// FlipSequence is a copy-on-grow vector reclaimed via AtomicCounter2's
// cyclic-active flip protocol.
type FlipSequence[T Elem] struct {
	buf      [2]atomic.Pointer[flipBuffer[T]]
	capacity atomic.Uint32 // GATE 1: appenders below this may write; at/above must wait or grow
	cursor   atomic.Uint32
	counters *AtomicCounter2
}

// NewFlipSequence returns a FlipSequence with room for at least
// initialCapacity elements before its first growth.
func NewFlipSequence[T Elem](initialCapacity int) *FlipSequence[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	s := &FlipSequence[T]{counters: NewAtomicCounter2()}
	s.buf[0].Store(&flipBuffer[T]{data: make([]T, initialCapacity)})
	s.capacity.Store(uint32(initialCapacity))
	return s
}

func (s *FlipSequence[T]) Size() int {
	return int(s.cursor.Load())
}

// Push implements Sequence.Push: reserve a slot, growing the backing
// buffer first if the reservation would overflow it, then CAS the
// sentinel out of the slot. A slot can briefly show the sentinel to a
// racing grower's copy pass, so the writer keeps retrying the CAS until
// its own write lands.
func (s *FlipSequence[T]) Push(v T) {
	checkNotSentinel(v)
	pos := s.cursor.Add(1) - 1
	s.ensureCapacity(pos)
	gen := s.counters.PinActive()
	buf := s.buf[gen].Load()
	for !casElem(&buf.data[pos], 0, v) {
		// another growth cycle raced us between ensureCapacity and the
		// CAS; release, re-grow, re-pin, retry.
		s.counters.Unpin(gen)
		s.ensureCapacity(pos)
		gen = s.counters.PinActive()
		buf = s.buf[gen].Load()
	}
	s.counters.Unpin(gen)
}

// PushUnchecked appends without the sentinel-retry loop: it assumes the
// slot is already reserved capacity and simply stores. Valid only when
// the caller has already guaranteed the buffer is large enough (e.g. a
// single-writer bulk loader) — using it under contended growth can
// silently drop the invariant that every reserved slot eventually holds a
// non-sentinel value, so it is not the default Push path.
func (s *FlipSequence[T]) PushUnchecked(v T) {
	checkNotSentinel(v)
	pos := s.cursor.Add(1) - 1
	s.ensureCapacity(pos)
	gen := s.counters.PinActive()
	buf := s.buf[gen].Load()
	storeElem(&buf.data[pos], v)
	s.counters.Unpin(gen)
}

// ensureCapacity implements the growth algorithm: only the single writer
// whose reservation exactly equals capacity-1 becomes the grower; writers
// reserving beyond the current capacity spin on GATE 1 until the grower
// publishes the new capacity.
func (s *FlipSequence[T]) ensureCapacity(pos uint32) {
	for {
		cap := s.capacity.Load()
		if pos+1 < cap {
			return
		}
		if pos+1 == cap {
			s.grow(cap)
			return
		}
		spinWait() // Growing state: another writer is the grower
	}
}

func (s *FlipSequence[T]) grow(oldCap uint32) {
	newGen := s.counters.AcquireInactive()
	oldGen := 1 - newGen
	old := s.buf[oldGen].Load()

	newCap := oldCap * 2
	fresh := &flipBuffer[T]{data: make([]T, newCap)}
	// Slot oldCap-1 is this very writer's own reservation: ensureCapacity
	// only calls grow when pos+1 == oldCap, i.e. pos == oldCap-1, and this
	// goroutine's CAS into that slot (in Push, below) hasn't run yet — it
	// runs only after grow returns. Waiting on it here would deadlock
	// forever, so it is left at the sentinel and copied over as-is; the
	// writer's own retry loop in Push fills it in the new buffer instead.
	for i := uint32(0); i < oldCap-1; i++ {
		// Retry until the slot resolves to a non-sentinel value. Every
		// slot below oldCap-1 was already reserved by some writer before
		// this growth started, so it will eventually be written unless
		// that writer is permanently descheduled, an accepted
		// obstruction-free trade-off.
		for {
			v := loadElem(&old.data[i])
			if v != 0 {
				fresh.data[i] = v
				break
			}
			spinWait()
		}
	}

	s.buf[newGen].Store(fresh)
	// Flip before opening GATE 1: a writer released by the new capacity
	// pins the active generation, which must already be the fresh buffer.
	s.counters.Flip()
	s.capacity.Store(newCap) // GATE 1 opens
	s.counters.ReleaseAsLast(oldGen)
}

func (s *FlipSequence[T]) Iter(_ int) Iterator[T] {
	gen := s.counters.PinActive()
	buf := s.buf[gen].Load()
	return &flipIterator[T]{seq: s, gen: gen, buf: buf, pos: -1}
}

type flipIterator[T Elem] struct {
	seq    *FlipSequence[T]
	buf    *flipBuffer[T]
	gen    int
	pos    int
	closed bool
}

func (it *flipIterator[T]) Next() bool {
	it.pos++
	if it.pos >= len(it.buf.data) {
		return false
	}
	return loadElem(&it.buf.data[it.pos]) != 0
}

func (it *flipIterator[T]) Value() T {
	return loadElem(&it.buf.data[it.pos])
}

func (it *flipIterator[T]) Close() {
	if it.closed {
		return
	}
	it.closed = true
	it.seq.counters.Unpin(it.gen)
}
