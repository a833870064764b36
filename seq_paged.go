package lfseq

import "sync/atomic"

// PagedSequence is a singly linked chain of fixed-capacity pages. It
// never copies, so it needs no reclamation protocol at all — element
// addresses are stable for the sequence's whole lifetime.
type PagedSequence[T Elem] struct {
	pageSize uint32
	cursor   atomic.Uint64 // packed (current page, index-in-page)
	head     *page[T]      // first page; keeps the whole chain reachable
	arena    *PageArena[T] // nil unless constructed with an arena
}

// NewPagedSequence returns a PagedSequence whose pages hold pageSize
// elements each. pageSize must be less than 2^indexBits; the default
// build (opt_pagesize_default.go) sets indexBits=16, so any pageSize up
// to 65535 is safe.
func NewPagedSequence[T Elem](pageSize int) *PagedSequence[T] {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	head := &page[T]{data: make([]T, pageSize)}
	s := &PagedSequence[T]{pageSize: uint32(pageSize), head: head}
	s.cursor.Store(packPtr(head, 0))
	return s
}

// NewPagedSequenceFromArena returns a PagedSequence that draws its pages
// from a shared PageArena instead of allocating them one at a time.
// HazardSequence and FlipSequence never call into a PageArena.
func NewPagedSequenceFromArena[T Elem](arena *PageArena[T]) *PagedSequence[T] {
	head := arena.Allocate()
	s := &PagedSequence[T]{pageSize: arena.pageSize, head: head, arena: arena}
	s.cursor.Store(packPtr(head, 0))
	return s
}

func (s *PagedSequence[T]) allocatePage() *page[T] {
	if s.arena != nil {
		return s.arena.Allocate()
	}
	return &page[T]{data: make([]T, s.pageSize)}
}

// Push reserves exactly one slot via a single atomic Add on the packed
// cursor. A reservation landing exactly on pageSize makes that goroutine
// the unique grower for this transition; reservations landing beyond
// pageSize belong to goroutines that raced ahead of a grower still in
// flight, and they spin (without reserving again) until the cursor moves
// onto the new page.
func (s *PagedSequence[T]) Push(v T) {
	checkNotSentinel(v)
	for {
		word := s.cursor.Add(1) - 1
		p, idx := unpackPtr[page[T]](word)
		switch {
		case idx < s.pageSize:
			storeElem(&p.data[idx], v)
			return
		case idx == s.pageSize:
			next := s.allocatePage()
			p.next.Store(next)
			s.cursor.Store(packPtr(next, 0))
			// fall through to retry our own reservation on the fresh page
		default:
			for {
				_, idx2 := unpackPtr[page[T]](s.cursor.Load())
				if idx2 < s.pageSize {
					break
				}
				spinWait()
			}
		}
	}
}

// Size returns an advisory element count, computed from the packed
// cursor and the number of pages chained ahead of the cursor's page.
// Exact size during concurrent pushes is not guaranteed.
func (s *PagedSequence[T]) Size() int {
	cp, idx := unpackPtr[page[T]](s.cursor.Load())
	if idx > s.pageSize {
		idx = s.pageSize
	}
	pages := 0
	for p := s.head; p != cp; p = p.next.Load() {
		pages++
	}
	return pages*int(s.pageSize) + int(idx)
}

// Iter starts a walk at the head page. readerID is ignored: D3 needs no
// reclamation, so it has no hazard-id contract to enforce.
func (s *PagedSequence[T]) Iter(_ int) Iterator[T] {
	return &pagedIterator[T]{seq: s, cur: s.head, idx: -1}
}

type pagedIterator[T Elem] struct {
	seq *PagedSequence[T]
	cur *page[T]
	idx int
}

// Next hops across a page boundary: step, and if that lands on the
// page-end marker, jump to the next page's first slot (or stop if there
// isn't one yet).
func (it *pagedIterator[T]) Next() bool {
	it.idx++
	if it.idx >= int(it.seq.pageSize) {
		next := it.cur.next.Load()
		if next == nil {
			return false
		}
		it.cur = next
		it.idx = 0
	}
	return loadElem(&it.cur.data[it.idx]) != 0
}

func (it *pagedIterator[T]) Value() T {
	return loadElem(&it.cur.data[it.idx])
}

// Close is a no-op: D3 pages are never freed while the sequence is alive,
// so there is nothing for an iterator to pin or release.
func (it *pagedIterator[T]) Close() {}
