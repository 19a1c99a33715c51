//go:build !ios && !android && (amd64 || arm64)

package python

import (
	"sync"
	"testing"
)

func TestNewHandleAssignsUniqueIDs(t *testing.T) {
	a := NewHandle(0x1000)
	b := NewHandle(0x1000)

	if a.ID() == 0 || b.ID() == 0 {
		t.Fatal("handles on a non-null pointer should have non-zero ids")
	}
	if a.ID() == b.ID() {
		t.Error("two handles on the same pointer should have distinct ids")
	}
	if a.Equal(b) {
		t.Error("handles with distinct ids should not be equal")
	}
	if a.Ptr() != b.Ptr() {
		t.Error("both handles should keep the wrapped pointer")
	}
}

func TestNewHandleIDsAreMonotonic(t *testing.T) {
	prev := NewHandle(0x1000)
	for i := 0; i < 100; i++ {
		next := NewHandle(0x1000)
		if next.ID() <= prev.ID() {
			t.Fatalf("id %d not greater than previous %d", next.ID(), prev.ID())
		}
		prev = next
	}
}

func TestZeroHandle(t *testing.T) {
	var zero Handle

	if !zero.IsZero() {
		t.Error("zero value should be the zero Handle")
	}
	if zero.ID() != 0 || zero.Ptr() != 0 {
		t.Error("zero Handle should have id 0 and ptr 0")
	}

	wrapped := NewHandle(0)
	if !wrapped.IsZero() {
		t.Error("wrapping a null pointer should yield the zero Handle")
	}
	if !zero.Equal(wrapped) {
		t.Error("zero handles should compare equal")
	}
}

func TestHandleCopyIsValueSemantics(t *testing.T) {
	a := NewHandle(0x2000)
	b := a

	if !a.Equal(b) {
		t.Error("a copied handle should stay equal to its source")
	}
	if b.ID() != a.ID() || b.Ptr() != a.Ptr() {
		t.Error("copy should carry both id and pointer")
	}
}

func TestHandleIDsUniqueAcrossGoroutines(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 1000

	var mu sync.Mutex
	seen := make(map[uint64]bool, goroutines*perGoroutine)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			ids := make([]uint64, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				ids = append(ids, NewHandle(0x3000).ID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				if seen[id] {
					t.Errorf("id %d assigned twice", id)
					return
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()
}
