package lfseq

import (
	"sync"
	"testing"
)

func TestHazardSequenceSequentialSanity(t *testing.T) {
	const n = 1000
	s := NewHazardSequence[uint32](10, 1)
	for i := uint32(1); i <= n; i++ {
		s.Push(i)
	}
	got := drain[uint32](t, s, 0)
	if len(got) != n {
		t.Fatalf("iteration yielded %d elements, want %d", len(got), n)
	}
	for i, v := range got {
		if v != uint32(i+1) {
			t.Fatalf("single-writer order violated at index %d: got %d, want %d", i, v, i+1)
		}
	}
}

func TestHazardSequenceReaderIDReuseIsAContractViolation(t *testing.T) {
	s := NewHazardSequence[uint32](4, 1)
	s.Push(1)
	it := s.Iter(0)
	defer it.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reusing a live reader id")
		}
	}()
	s.Iter(0)
}

func TestHazardSequenceReaderIDOutOfRangePanics(t *testing.T) {
	s := NewHazardSequence[uint32](4, 2)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an out-of-range reader id")
		}
	}()
	s.Iter(5)
}

// TestHazardSequenceUniqueIDs runs 16 readers, each with a distinct id,
// racing against writers under growth.
func TestHazardSequenceUniqueIDs(t *testing.T) {
	const readers = 16
	const writers = 4
	const perWriter = 5000
	s := NewHazardSequence[uint32](100, readers)

	stop := make(chan struct{})
	var readerWG sync.WaitGroup
	for r := 0; r < readers; r++ {
		readerWG.Add(1)
		go func(id int) {
			defer readerWG.Done()
			for {
				select {
				case <-stop:
					return
				default:
					it := s.Iter(id)
					for it.Next() {
						if it.Value() == 0 {
							t.Errorf("reader %d observed the sentinel as a value", id)
						}
					}
					it.Close()
				}
			}
		}(r)
	}

	var writerWG sync.WaitGroup
	for w := 1; w <= writers; w++ {
		writerWG.Add(1)
		go func(id uint32) {
			defer writerWG.Done()
			for i := 0; i < perWriter; i++ {
				s.Push(id)
			}
		}(uint32(w))
	}
	writerWG.Wait()
	close(stop)
	readerWG.Wait()

	counts := make(map[uint32]int)
	for _, v := range drain[uint32](t, s, 0) {
		counts[v]++
	}
	for id := uint32(1); id <= writers; id++ {
		if counts[id] != perWriter {
			t.Errorf("writer %d contributed %d elements, want %d", id, counts[id], perWriter)
		}
	}
}

func TestHazardSequenceGrowthStress(t *testing.T) {
	const writers = 4
	const perWriter = 20000
	s := NewHazardSequence[uint32](4, 1)

	var wg sync.WaitGroup
	for w := 1; w <= writers; w++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Push(id)
			}
		}(uint32(w))
	}
	wg.Wait()

	counts := make(map[uint32]int)
	for _, v := range drain[uint32](t, s, 0) {
		counts[v]++
	}
	for id := uint32(1); id <= writers; id++ {
		if counts[id] != perWriter {
			t.Errorf("writer %d contributed %d elements, want %d", id, counts[id], perWriter)
		}
	}
}
