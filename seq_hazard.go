package lfseq

import "sync/atomic"

// hazBuffer is one generation of backing storage for a HazardSequence.
type hazBuffer[T Elem] struct {
	data []T
}

// HazardSequence is a copy-on-grow vector reclaimed via a hazard-pointer
// table instead of a reference count. Growth still has a single implicit
// grower: the cursor hands out unique positions, so exactly one writer
// ever observes pos+1 == capacity.
type HazardSequence[T Elem] struct {
	buf      atomic.Pointer[hazBuffer[T]]
	capacity atomic.Uint32
	cursor   atomic.Uint32
	hazards  *HazardSlotTable[hazBuffer[T]]
	inUse    []atomic.Bool // best-effort detector for the "unique reader id" contract
}

// NewHazardSequence returns a HazardSequence with room for at least
// initialCapacity elements, supporting up to maxReaders concurrently
// pinned reader ids. Callers must provide their own unique id per
// concurrent reader.
func NewHazardSequence[T Elem](initialCapacity, maxReaders int) *HazardSequence[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	s := &HazardSequence[T]{
		hazards: NewHazardSlotTable[hazBuffer[T]](maxReaders),
		inUse:   make([]atomic.Bool, maxReaders),
	}
	s.buf.Store(&hazBuffer[T]{data: make([]T, initialCapacity)})
	s.capacity.Store(uint32(initialCapacity))
	return s
}

func (s *HazardSequence[T]) Size() int {
	return int(s.cursor.Load())
}

func (s *HazardSequence[T]) Push(v T) {
	checkNotSentinel(v)
	pos := s.cursor.Add(1) - 1
	s.ensureCapacity(pos)
	buf := s.buf.Load()
	for !casElem(&buf.data[pos], 0, v) {
		s.ensureCapacity(pos)
		buf = s.buf.Load()
	}
}

// PushUnchecked mirrors FlipSequence.PushUnchecked: store without the
// sentinel-retry loop, assuming the caller has already guaranteed
// capacity.
func (s *HazardSequence[T]) PushUnchecked(v T) {
	checkNotSentinel(v)
	pos := s.cursor.Add(1) - 1
	s.ensureCapacity(pos)
	buf := s.buf.Load()
	storeElem(&buf.data[pos], v)
}

func (s *HazardSequence[T]) ensureCapacity(pos uint32) {
	for {
		cap := s.capacity.Load()
		if pos+1 < cap {
			return
		}
		if pos+1 == cap {
			s.grow(cap)
			return
		}
		spinWait()
	}
}

func (s *HazardSequence[T]) grow(oldCap uint32) {
	old := s.buf.Load()
	newCap := oldCap * 2
	fresh := &hazBuffer[T]{data: make([]T, newCap)}
	// Slot oldCap-1 is this writer's own reservation (grow only runs when
	// pos == oldCap-1) and its CAS into that slot hasn't happened yet, so
	// it is excluded here and left for the writer's own retry in Push to
	// fill in the new buffer.
	for i := uint32(0); i < oldCap-1; i++ {
		for {
			v := loadElem(&old.data[i])
			if v != 0 {
				fresh.data[i] = v
				break
			}
			spinWait()
		}
	}
	s.buf.Store(fresh)
	s.capacity.Store(newCap) // GATE 1 opens
	s.hazards.WaitUntilClear(old)
	// old is now unreachable by any reader; letting it drop out of scope
	// here is lfseq's reclamation step, replacing the C++ free().
}

func (s *HazardSequence[T]) Iter(readerID int) Iterator[T] {
	if readerID < 0 || readerID >= len(s.inUse) {
		contractViolation("reader id %d out of range [0,%d)", readerID, len(s.inUse))
	}
	if !s.inUse[readerID].CompareAndSwap(false, true) {
		contractViolation("reader id %d already has a live iterator", readerID)
	}
	buf := s.hazards.Publish(readerID, s.buf.Load)
	return &hazardIterator[T]{seq: s, id: readerID, buf: buf, pos: -1}
}

type hazardIterator[T Elem] struct {
	seq    *HazardSequence[T]
	buf    *hazBuffer[T]
	id     int
	pos    int
	closed bool
}

func (it *hazardIterator[T]) Next() bool {
	it.pos++
	if it.pos >= len(it.buf.data) {
		return false
	}
	return loadElem(&it.buf.data[it.pos]) != 0
}

func (it *hazardIterator[T]) Value() T {
	return loadElem(&it.buf.data[it.pos])
}

func (it *hazardIterator[T]) Close() {
	if it.closed {
		return
	}
	it.closed = true
	it.seq.hazards.Clear(it.id)
	it.seq.inUse[it.id].Store(false)
}
