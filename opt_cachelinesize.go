package lfseq

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize pads each HazardSlotTable slot onto its own cache line, so
// readers publishing into neighbouring slots don't false-share a line. In
// AtomicCounter2 it is trailing padding only: both counters and the
// active flag still share one line.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
