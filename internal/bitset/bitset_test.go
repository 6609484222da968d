package bitset

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestBitSet(t *testing.T) {
	b := New(100)

	if b.Len() != 100 {
		t.Errorf("expected len 100, got %d", b.Len())
	}

	b.Set(10)
	if !b.Test(10) {
		t.Errorf("expected bit 10 to be set")
	}

	if b.Count() != 1 {
		t.Errorf("expected count 1, got %d", b.Count())
	}

	b.Unset(10)
	if b.Test(10) {
		t.Errorf("expected bit 10 to be unset")
	}

	b.Set(10)
	b.Set(20)
	b.Set(30)

	if b.Count() != 3 {
		t.Errorf("expected count 3, got %d", b.Count())
	}

	b.ClearAll()
	if b.Count() != 0 {
		t.Errorf("expected count 0 after clear, got %d", b.Count())
	}
}

func TestBitSet_OutOfRange(t *testing.T) {
	b := New(10)
	b.Set(10)
	b.Set(1000)
	if b.Count() != 0 {
		t.Errorf("out of range set must be ignored, count %d", b.Count())
	}
	if b.Test(1000) {
		t.Errorf("out of range test must be false")
	}
	if b.TestAndClear(1000) {
		t.Errorf("out of range clear must be false")
	}
}

func TestBitSet_TestAndSet(t *testing.T) {
	b := New(100)
	if b.TestAndSet(10) {
		t.Errorf("expected TestAndSet(10) to return false (was unset)")
	}
	if !b.Test(10) {
		t.Errorf("expected bit 10 to be set")
	}
	if !b.TestAndSet(10) {
		t.Errorf("expected TestAndSet(10) to return true (was set)")
	}
}

func TestBitSet_TestAndClear(t *testing.T) {
	b := New(100)
	if b.TestAndClear(7) {
		t.Errorf("expected TestAndClear(7) to return false (was unset)")
	}
	b.Set(7)
	if !b.TestAndClear(7) {
		t.Errorf("expected TestAndClear(7) to return true (was set)")
	}
	if b.Test(7) {
		t.Errorf("expected bit 7 to be cleared")
	}
}

func TestBitSet_NextSetBit(t *testing.T) {
	b := New(1000)
	b.Set(10)
	b.Set(20)
	b.Set(100)
	b.Set(999)

	tests := []struct {
		start    uint64
		expected int64
	}{
		{0, 10},
		{10, 10},
		{11, 20},
		{20, 20},
		{21, 100},
		{100, 100},
		{101, 999},
		{999, 999},
		{1000, -1},
		{5000, -1},
	}

	for _, tt := range tests {
		if got := b.NextSetBit(tt.start); got != tt.expected {
			t.Errorf("NextSetBit(%d) = %d, expected %d", tt.start, got, tt.expected)
		}
	}

	empty := New(0)
	if got := empty.NextSetBit(0); got != -1 {
		t.Errorf("NextSetBit on empty bitset = %d, expected -1", got)
	}
}

func TestBitSet_ConcurrentClaim(t *testing.T) {
	const n = 4096
	b := New(n)
	for i := uint64(0); i < n; i++ {
		b.Set(i)
	}

	var claimed atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint64(0); i < n; i++ {
				if b.TestAndClear(i) {
					claimed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if claimed.Load() != n {
		t.Errorf("expected every bit claimed exactly once, got %d claims", claimed.Load())
	}
	if b.Count() != 0 {
		t.Errorf("expected empty bitset, got %d", b.Count())
	}
}
