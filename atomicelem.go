package lfseq

import (
	"sync/atomic"
	"unsafe"
)

// loadElem, storeElem and casElem give the copy-on-grow disciplines
// atomic access to a slot of generic element type T (Elem is ~uint32 |
// ~uint64) without requiring every backing array to be a concrete
// []uint64. The growth protocol's correctness depends on real atomic
// ordering regardless of architecture, so lfseq always takes the atomic
// path rather than a non-atomic fast path on strongly-ordered platforms.
//
//go:nosplit
func loadElem[T Elem](addr *T) T {
	if unsafe.Sizeof(*addr) == 4 {
		return T(atomic.LoadUint32((*uint32)(unsafe.Pointer(addr))))
	}
	return T(atomic.LoadUint64((*uint64)(unsafe.Pointer(addr))))
}

//go:nosplit
func storeElem[T Elem](addr *T, val T) {
	if unsafe.Sizeof(*addr) == 4 {
		atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), uint32(val))
	} else {
		atomic.StoreUint64((*uint64)(unsafe.Pointer(addr)), uint64(val))
	}
}

//go:nosplit
func casElem[T Elem](addr *T, old, new T) bool {
	if unsafe.Sizeof(*addr) == 4 {
		return atomic.CompareAndSwapUint32((*uint32)(unsafe.Pointer(addr)), uint32(old), uint32(new))
	}
	return atomic.CompareAndSwapUint64((*uint64)(unsafe.Pointer(addr)), uint64(old), uint64(new))
}
