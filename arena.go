package lfseq

import "sync/atomic"

// pageChunk is a block of pagesPerChunk pages allocated together, the
// unit PageArena hands out pages from.
type pageChunk[T Elem] struct {
	pages []page[T]
	next  atomic.Pointer[pageChunk[T]]
}

// PageArena is an optional bulk page allocator used only by PagedSequence;
// HazardSequence and FlipSequence allocate their buffers directly.
//
// PageArena uses exactly the same packed-cursor fetch_add growth pattern
// as PagedSequence itself, one level up: chunks instead of pages, pages
// instead of elements.
type PageArena[T Elem] struct {
	pagesPerChunk uint32
	pageSize      uint32
	cursor        atomic.Uint64 // packed (current chunk, index-in-chunk)
	head          *pageChunk[T] // keeps every chunk reachable
}

// NewPageArena returns an arena that allocates pages of pageSize elements,
// pagesPerChunk at a time.
func NewPageArena[T Elem](pagesPerChunk, pageSize int) *PageArena[T] {
	if pagesPerChunk < 1 {
		pagesPerChunk = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	head := newPageChunk[T](pagesPerChunk, pageSize)
	a := &PageArena[T]{
		pagesPerChunk: uint32(pagesPerChunk),
		pageSize:      uint32(pageSize),
		head:          head,
	}
	a.cursor.Store(packPtr(head, 0))
	return a
}

func newPageChunk[T Elem](n, pageSize int) *pageChunk[T] {
	c := &pageChunk[T]{pages: make([]page[T], n)}
	for i := range c.pages {
		c.pages[i].data = make([]T, pageSize)
	}
	return c
}

// Allocate reserves and returns the next page from the arena. Pages are
// retained for the arena's whole lifetime; there is no Free.
func (a *PageArena[T]) Allocate() *page[T] {
	for {
		word := a.cursor.Add(1) - 1
		c, idx := unpackPtr[pageChunk[T]](word)
		switch {
		case idx < a.pagesPerChunk:
			return &c.pages[idx]
		case idx == a.pagesPerChunk:
			next := newPageChunk[T](int(a.pagesPerChunk), int(a.pageSize))
			c.next.Store(next)
			a.cursor.Store(packPtr(next, 0))
		default:
			for {
				_, idx2 := unpackPtr[pageChunk[T]](a.cursor.Load())
				if idx2 < a.pagesPerChunk {
					break
				}
				spinWait()
			}
		}
	}
}
