// Package workqueue implements the re-processing queue of the reachability
// fixpoint: a concurrent set of dirty state ids with "take smallest >= k".
package workqueue

import (
	"context"

	"github.com/hupe1980/attractor/internal/bitset"
)

// Queue is a thread-safe set of dirty states in [0, capacity).
type Queue struct {
	dirty *bitset.BitSet
}

// New creates an empty queue over [0, capacity).
func New(capacity int) *Queue {
	return &Queue{dirty: bitset.New(uint64(capacity))}
}

// Capacity returns the size of the state domain.
func (q *Queue) Capacity() int { return int(q.dirty.Len()) }

// Mark records that state must be (re-)visited. Marking is idempotent.
func (q *Queue) Mark(state int) {
	q.dirty.Set(uint64(state))
}

// ClaimNext atomically takes the smallest dirty state >= from.
// It returns false when no dirty state remains in [from, capacity).
func (q *Queue) ClaimNext(from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	for {
		next := q.dirty.NextSetBit(uint64(from))
		if next < 0 {
			return -1, false
		}
		if q.dirty.TestAndClear(uint64(next)) {
			return int(next), true
		}
		// Lost the race for next; rescan from the same position.
		from = int(next)
	}
}

// Pending returns the number of dirty states.
func (q *Queue) Pending() int { return q.dirty.Count() }

// Drain claims and processes dirty states until a full pass from 0 finds
// none. Several workers may drain the same queue; process may Mark further
// states, which the marking worker picks up on its own re-scan at the latest.
//
// Drain returns ctx.Err() if the context is cancelled between passes.
func (q *Queue) Drain(ctx context.Context, process func(state int)) error {
	state, ok := q.ClaimNext(0)
	for ok {
		for ok {
			process(state)
			state, ok = q.ClaimNext(state + 1)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		// double check: another worker may have marked something we passed
		state, ok = q.ClaimNext(0)
	}
	return nil
}
