package lfseq

import (
	"sync/atomic"
	"unsafe"
)

// page is one fixed-capacity segment of a PagedSequence. Slots start at
// the sentinel and are claimed by whichever writer's cursor reservation
// lands on them; next is installed exactly once, by whichever writer's
// reservation overruns this page, and never changed afterward.
type page[T Elem] struct {
	data []T
	next atomic.Pointer[page[T]]
}

// packPtr and unpackPtr encode a pointer and a sub-indexBits index into one
// 64-bit word, so a single atomic.Uint64.Add can atomically advance both
// "which page" and "which slot in the page" together.
//
// Round-tripping a pointer through uintptr this way is only sound because
// nothing about the packed word is the sole thing keeping the pointee
// alive: every page and every arena chunk is also reachable through a
// real *page[T]/*pageChunk[T] field — head, and each page's own next —
// rooted at the PagedSequence or PageArena value the caller holds. The
// packed cursor is a cache of an address that's already kept alive
// elsewhere, not the only reference to it.
//
//go:nosplit
func packPtr[P any](p *P, idx uint32) uint64 {
	return uint64(uintptr(unsafe.Pointer(p)))<<indexBits | uint64(idx)
}

//go:nosplit
func unpackPtr[P any](word uint64) (*P, uint32) {
	idx := uint32(word & (1<<indexBits - 1))
	addr := uintptr(word >> indexBits)
	return (*P)(unsafe.Pointer(addr)), idx
}
