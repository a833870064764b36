package lfseq

// Sequence is the common contract satisfied by FlipSequence, HazardSequence
// and PagedSequence. It is append-only: there is no remove, no
// random-access mutation, and size is advisory during concurrent pushes.
type Sequence[T Elem] interface {
	// Push appends v, which must not be the sentinel (zero value).
	// Pushing the sentinel is a contract violation (panic). Push returns
	// once v is visible to any iterator started strictly after the
	// return.
	Push(v T)

	// Size returns a conservative, monotonically non-decreasing reading
	// of the reserved cursor. It may count slots that are reserved but
	// not yet written.
	Size() int

	// Iter pins a weakly-consistent snapshot of the backing storage and
	// returns an Iterator over it. readerID is required by
	// hazard-pointer-backed disciplines (HazardSequence) and ignored by
	// the others; callers that don't know which discipline they're
	// talking to should pass a small distinct id per concurrent reader
	// regardless.
	Iter(readerID int) Iterator[T]
}

// Iterator walks a pinned snapshot of a Sequence. The zero value is not
// usable; obtain one from Sequence.Iter.
//
// Usage:
//
//	it := seq.Iter(readerID)
//	defer it.Close()
//	for it.Next() {
//	    v := it.Value()
//	}
//
// Next stops at the first sentinel slot encountered at or before the
// reserved cursor. Because a slot can be reserved before it is stored, an
// iterator may terminate before every reserved slot has been visited —
// this is a weakly-consistent snapshot, not a bug. Callers wanting a
// complete view repeat iteration until two consecutive passes agree.
type Iterator[T Elem] interface {
	// Next advances to the next element, returning false once the
	// iterator has reached a sentinel or the end of the chain. Next must
	// be called before the first Value.
	Next() bool

	// Value returns the element at the iterator's current position.
	// Calling it before a successful Next, or after Next has returned
	// false, is undefined.
	Value() T

	// Close releases the pin this iterator holds on the backing storage.
	// Using the iterator after Close is undefined. Go has no destructors,
	// so callers must call Close explicitly, typically via defer.
	Close()
}
