package attractor

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/attractor/color"
)

// StateMap is a fixed-capacity, thread-safe map from State to color with
// monotonic join semantics: a stored color can only grow under Or.
//
// Absent states read as Zero. Size counts states holding a non-empty color.
type StateMap[P any] struct {
	alg  color.Algebra[P]
	data []atomic.Pointer[P]
	size atomic.Int64
}

// NewStateMap creates an empty map over [0, capacity).
func NewStateMap[P any](capacity int, alg color.Algebra[P]) *StateMap[P] {
	return &StateMap[P]{
		alg:  alg,
		data: make([]atomic.Pointer[P], capacity),
	}
}

// Capacity returns the number of addressable states.
func (m *StateMap[P]) Capacity() int { return len(m.data) }

// Size returns the number of states with a non-empty color.
func (m *StateMap[P]) Size() int { return int(m.size.Load()) }

// Get returns the color of s, or Zero when absent.
func (m *StateMap[P]) Get(s State) P {
	if p, ok := m.GetOK(s); ok {
		return p
	}
	return m.alg.Zero()
}

// GetOK returns the color of s and whether s is present.
func (m *StateMap[P]) GetOK(s State) (P, bool) {
	m.check(s)
	if p := m.data[s].Load(); p != nil {
		return *p, true
	}
	var zero P
	return zero, false
}

// Union joins value into the color of s. It returns true when the stored
// color grew and false when value was empty or already included.
//
// Concurrent calls never lose an update: the join is recomputed from the
// freshly read color until the compare-and-swap succeeds.
func (m *StateMap[P]) Union(s State, value P) bool {
	if m.alg.IsEmpty(value) {
		return false
	}
	m.check(s)

	slot := &m.data[s]
	for {
		current := slot.Load()
		joined := value
		if current != nil {
			joined = m.alg.Or(*current, value)
			if m.alg.Subset(joined, *current) {
				return false
			}
		}
		if slot.CompareAndSwap(current, &joined) {
			if current == nil {
				m.size.Add(1)
			}
			return true
		}
	}
}

// Range calls fn for every present state in ascending order until fn returns false.
// Concurrent updates may or may not be observed.
func (m *StateMap[P]) Range(fn func(s State, p P) bool) {
	for s := range m.data {
		if p := m.data[s].Load(); p != nil {
			if !fn(s, *p) {
				return
			}
		}
	}
}

// Members returns the set of present states.
func (m *StateMap[P]) Members() *roaring.Bitmap {
	bm := roaring.New()
	m.Range(func(s State, _ P) bool {
		bm.Add(uint32(s))
		return true
	})
	return bm
}

// String lists present states as "s: color" pairs.
func (m *StateMap[P]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	m.Range(func(s State, p P) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%d: %v", s, p)
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

func (m *StateMap[P]) check(s State) {
	if s < 0 || s >= len(m.data) {
		panic(invariantf("state %d outside [0, %d)", s, len(m.data)))
	}
}
