package bitset

import (
	"math/bits"
	"sync/atomic"
)

// BitSet is a thread-safe, lock-free bitset of fixed length.
type BitSet struct {
	words []atomic.Uint64
	size  uint64
}

// New creates a new BitSet with the given size (in bits).
func New(size uint64) *BitSet {
	return &BitSet{
		words: make([]atomic.Uint64, (size+63)/64),
		size:  size,
	}
}

// Len returns the size of the bitset in bits.
func (b *BitSet) Len() uint64 {
	return b.size
}

// Set sets the bit at the given index. Out of range indices are ignored.
func (b *BitSet) Set(i uint64) {
	if i >= b.size {
		return
	}
	b.words[i/64].Or(uint64(1) << (i % 64))
}

// Unset clears the bit at the given index.
func (b *BitSet) Unset(i uint64) {
	if i >= b.size {
		return
	}
	b.words[i/64].And(^(uint64(1) << (i % 64)))
}

// Test returns true if the bit at the given index is set.
func (b *BitSet) Test(i uint64) bool {
	if i >= b.size {
		return false
	}
	return b.words[i/64].Load()&(uint64(1)<<(i%64)) != 0
}

// TestAndSet sets the bit at the given index and returns true if it was ALREADY set.
func (b *BitSet) TestAndSet(i uint64) bool {
	if i >= b.size {
		return false
	}
	mask := uint64(1) << (i % 64)
	return b.words[i/64].Or(mask)&mask != 0
}

// TestAndClear clears the bit at the given index and returns true if this
// call cleared it. Exactly one of several concurrent callers wins a set bit.
func (b *BitSet) TestAndClear(i uint64) bool {
	if i >= b.size {
		return false
	}
	mask := uint64(1) << (i % 64)
	return b.words[i/64].And(^mask)&mask != 0
}

// NextSetBit returns the index of the next set bit starting from i (inclusive).
// Returns -1 if no bit is set at or after i.
func (b *BitSet) NextSetBit(i uint64) int64 {
	if i >= b.size {
		return -1
	}

	wordIdx := int(i / 64)

	// Mask out bits before i in the first word
	val := b.words[wordIdx].Load() &^ ((uint64(1) << (i % 64)) - 1)
	for {
		if val != 0 {
			idx := uint64(wordIdx)*64 + uint64(bits.TrailingZeros64(val))
			if idx >= b.size {
				return -1
			}
			return int64(idx)
		}
		wordIdx++
		if wordIdx >= len(b.words) {
			return -1
		}
		val = b.words[wordIdx].Load()
	}
}

// Count returns the number of set bits.
func (b *BitSet) Count() int {
	count := 0
	for i := range b.words {
		if val := b.words[i].Load(); val != 0 {
			count += bits.OnesCount64(val)
		}
	}
	return count
}

// ClearAll clears all bits in the bitset.
func (b *BitSet) ClearAll() {
	for i := range b.words {
		b.words[i].Store(0)
	}
}
