package lfseq

import (
	"sync"
	"testing"
)

func TestSequenceMapRejectsZeroKeys(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic constructing a zero-key map")
		}
	}()
	NewFlipSequenceMap[uint32](0, 4)
}

func TestSequenceMapOutOfRangeKeyPanics(t *testing.T) {
	m := NewFlipSequenceMap[uint32](4, 4)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an out-of-range key")
		}
	}()
	m.Push(4, 1)
}

func TestSequenceMapPerKeyIsolation(t *testing.T) {
	m := NewFlipSequenceMap[uint32](3, 8)
	m.Push(0, 1)
	m.Push(0, 2)
	m.Push(1, 100)

	if got := m.Size(0); got != 2 {
		t.Fatalf("key 0 size = %d, want 2", got)
	}
	if got := m.Size(1); got != 1 {
		t.Fatalf("key 1 size = %d, want 1", got)
	}
	if got := m.Size(2); got != 0 {
		t.Fatalf("key 2 size = %d, want 0", got)
	}
}

// TestSequenceMapShardedWriters has each writer push exclusively to its
// own key, checking that keys never observe cross-talk.
func TestSequenceMapShardedWriters(t *testing.T) {
	const numKeys = 8
	const perKey = 5000
	m := NewFlipSequenceMap[uint32](numKeys, 64)

	var wg sync.WaitGroup
	for k := 0; k < numKeys; k++ {
		wg.Add(1)
		go func(key int) {
			defer wg.Done()
			for i := 0; i < perKey; i++ {
				m.Push(key, uint32(key+1))
			}
		}(k)
	}
	wg.Wait()

	for k := 0; k < numKeys; k++ {
		if size := m.Size(k); size != perKey {
			t.Fatalf("key %d size = %d, want %d", k, size, perKey)
		}
		for _, v := range m.drainKey(t, k) {
			if v != uint32(k+1) {
				t.Fatalf("key %d observed foreign value %d", k, v)
			}
		}
	}
}

func (m *SequenceMap[T]) drainKey(t *testing.T, key int) []T {
	t.Helper()
	it := m.Iter(key, 0)
	defer it.Close()
	var got []T
	for it.Next() {
		got = append(got, it.Value())
	}
	return got
}

func TestSequenceMapHazardBackedBucketsEnforceReaderIDs(t *testing.T) {
	m := NewHazardSequenceMap[uint32](2, 8, 1)
	m.Push(0, 1)
	it := m.Iter(0, 0)
	defer it.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reusing a live reader id on a hazard-backed bucket")
		}
	}()
	m.Iter(0, 0)
}

func TestSequenceMapPagedBuckets(t *testing.T) {
	m := NewPagedSequenceMap[uint32](4, 16)
	for i := uint32(1); i <= 200; i++ {
		m.Push(2, i)
	}
	if got := m.Size(2); got != 200 {
		t.Fatalf("key 2 size = %d, want 200", got)
	}
	if got := m.Size(0); got != 0 {
		t.Fatalf("untouched key 0 size = %d, want 0", got)
	}
}
