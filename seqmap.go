package lfseq

// SequenceMap is a fixed-length array of independent Sequences, indexed by
// a small integer key. It is sized once at construction and never
// resized; there are no cross-bucket invariants, so throughput scales
// trivially in the number of distinct keys — each key's writers and
// readers only ever contend with each other.
type SequenceMap[T Elem] struct {
	buckets []Sequence[T]
}

// NewSequenceMap builds a SequenceMap with numKeys buckets, each produced
// by newBucket(perKeyCapacity). newBucket lets the caller choose which
// discipline backs every bucket (FlipSequence, HazardSequence or
// PagedSequence all satisfy Sequence[T]).
func NewSequenceMap[T Elem](numKeys, perKeyCapacity int, newBucket func(capacity int) Sequence[T]) *SequenceMap[T] {
	if numKeys < 1 {
		contractViolation("SequenceMap requires at least one key, got %d", numKeys)
	}
	m := &SequenceMap[T]{buckets: make([]Sequence[T], numKeys)}
	for i := range m.buckets {
		m.buckets[i] = newBucket(perKeyCapacity)
	}
	return m
}

// NewFlipSequenceMap builds a SequenceMap backed by FlipSequence (D1)
// buckets.
func NewFlipSequenceMap[T Elem](numKeys, perKeyCapacity int) *SequenceMap[T] {
	return NewSequenceMap[T](numKeys, perKeyCapacity, func(capacity int) Sequence[T] {
		return NewFlipSequence[T](capacity)
	})
}

// NewHazardSequenceMap builds a SequenceMap backed by HazardSequence (D2)
// buckets, each supporting up to maxReaders concurrent reader ids.
func NewHazardSequenceMap[T Elem](numKeys, perKeyCapacity, maxReaders int) *SequenceMap[T] {
	return NewSequenceMap[T](numKeys, perKeyCapacity, func(capacity int) Sequence[T] {
		return NewHazardSequence[T](capacity, maxReaders)
	})
}

// NewPagedSequenceMap builds a SequenceMap backed by PagedSequence (D3)
// buckets of the given page size.
func NewPagedSequenceMap[T Elem](numKeys, pageSize int) *SequenceMap[T] {
	return NewSequenceMap[T](numKeys, pageSize, func(capacity int) Sequence[T] {
		return NewPagedSequence[T](capacity)
	})
}

func (m *SequenceMap[T]) bucket(key int) Sequence[T] {
	if key < 0 || key >= len(m.buckets) {
		contractViolation("key %d out of range [0,%d)", key, len(m.buckets))
	}
	return m.buckets[key]
}

// Push delegates to sequence[key].Push(value).
func (m *SequenceMap[T]) Push(key int, value T) {
	m.bucket(key).Push(value)
}

// Size returns the advisory size of the bucket at key.
func (m *SequenceMap[T]) Size(key int) int {
	return m.bucket(key).Size()
}

// Iter returns an iterator bound to the sequence at key. readerID is
// required for hazard-backed buckets and ignored otherwise, exactly as
// for Sequence.Iter.
func (m *SequenceMap[T]) Iter(key, readerID int) Iterator[T] {
	return m.bucket(key).Iter(readerID)
}

// NumKeys reports how many buckets this map has.
func (m *SequenceMap[T]) NumKeys() int {
	return len(m.buckets)
}
