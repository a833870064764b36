package lfseq

import "runtime"

// spinWait is called from the package's busy-wait loops: the counter
// waits in AtomicCounter2 (AcquireInactive, ReleaseAsLast), the hazard
// wait in HazardSlotTable.WaitUntilClear, the capacity-gate and growth
// copy waits in the copy-on-grow disciplines, and the cursor-overrun
// waits in PagedSequence and PageArena. Yielding the
// P instead of hammering the cache line matters once goroutine count
// exceeds GOMAXPROCS, which is routine under heavy concurrent load.
func spinWait() {
	runtime.Gosched()
}
