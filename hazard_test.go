package lfseq

import (
	"sync"
	"testing"
)

func TestHazardSlotTablePublishAndClear(t *testing.T) {
	h := NewHazardSlotTable[int](4)
	v := 42
	p := h.Publish(0, func() *int { return &v })
	if p != &v {
		t.Fatalf("publish returned %p, want %p", p, &v)
	}
	if !h.IsHazarded(&v) {
		t.Fatalf("published pointer must be reported hazarded")
	}
	h.Clear(0)
	if h.IsHazarded(&v) {
		t.Fatalf("cleared pointer must no longer be hazarded")
	}
}

func TestHazardSlotTableIndependentReaders(t *testing.T) {
	h := NewHazardSlotTable[int](4)
	a, b := 1, 2
	h.Publish(0, func() *int { return &a })
	h.Publish(1, func() *int { return &b })

	if !h.IsHazarded(&a) || !h.IsHazarded(&b) {
		t.Fatalf("both readers' pointers must be hazarded independently")
	}
	h.Clear(0)
	if h.IsHazarded(&a) {
		t.Fatalf("clearing reader 0 must not affect reader 1")
	}
	if !h.IsHazarded(&b) {
		t.Fatalf("reader 1 must remain hazarded")
	}
}

// TestHazardSlotTableWaitUntilClear exercises the writer-side reclamation
// wait: it must block for as long as any reader publishes the pointer.
func TestHazardSlotTableWaitUntilClear(t *testing.T) {
	h := NewHazardSlotTable[int](2)
	v := 7
	h.Publish(0, func() *int { return &v })

	cleared := make(chan struct{})
	go func() {
		h.WaitUntilClear(&v)
		close(cleared)
	}()

	select {
	case <-cleared:
		t.Fatalf("WaitUntilClear must not return while the pointer is hazarded")
	default:
	}

	h.Clear(0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-cleared
	}()
	wg.Wait()
}
