// Package lfseq provides lock-free, append-only, growable containers for
// small unsigned integers, built as a storage primitive for a parallel
// SAT solver's clause/watcher bookkeeping.
//
// The package exposes one abstract type, Sequence, with three concurrency
// disciplines that all satisfy the same contract:
//
//   - FlipSequence (D1): copy-on-grow, reclaimed via a two-counter
//     cyclic-active flip protocol (AtomicCounter2).
//   - HazardSequence (D2): copy-on-grow, reclaimed via a hazard-pointer
//     table (HazardSlotTable).
//   - PagedSequence (D3): never copies; grows by linking a fresh page
//     onto a chain and advancing a packed (page, index) cursor.
//
// SequenceMap layers a fixed-size array of Sequences on top of one of
// these disciplines, indexed by a small integer key.
//
// All disciplines answer to the same weak-consistency snapshot model:
// an iterator may miss an element whose slot was reserved but not yet
// stored, but it will never observe the sentinel value as an element and
// will never see the same slot twice. Callers wanting a complete view
// repeat iteration until two consecutive passes agree (the fix-point
// pattern).
package lfseq
