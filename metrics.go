package attractor

import (
	"sync/atomic"
	"time"
)

// Direction selects the edge direction of a reachability fixpoint.
type Direction int

const (
	// Forward follows successors.
	Forward Direction = iota
	// Backward follows predecessors.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// MetricsCollector defines an interface for collecting run metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus (see package prom).
//
// Methods may be called from several goroutines at once.
type MetricsCollector interface {
	// RecordSinkSweep is called once after sink detection.
	RecordSinkSweep(states, sinks int, duration time.Duration)

	// RecordReach is called after each reachability fixpoint with the
	// number of states in the seed and in the result.
	RecordReach(dir Direction, seed, result int, duration time.Duration)

	// RecordUniverse is called when a worklist item is taken; pending is the
	// number of items left behind it.
	RecordUniverse(size, pending int)

	// RecordComponent is called for every reported terminal component.
	RecordComponent(states int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSinkSweep(int, int, time.Duration)        {}
func (NoopMetricsCollector) RecordReach(Direction, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordUniverse(int, int)                        {}
func (NoopMetricsCollector) RecordComponent(int)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	Sinks           atomic.Int64
	SinkSweepNanos  atomic.Int64
	ForwardReaches  atomic.Int64
	BackwardReaches atomic.Int64
	ReachTotalNanos atomic.Int64
	Universes       atomic.Int64
	MaxPending      atomic.Int64
	Components      atomic.Int64
	ComponentStates atomic.Int64
}

// RecordSinkSweep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSinkSweep(_, sinks int, duration time.Duration) {
	b.Sinks.Add(int64(sinks))
	b.SinkSweepNanos.Add(duration.Nanoseconds())
}

// RecordReach implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReach(dir Direction, _, _ int, duration time.Duration) {
	if dir == Forward {
		b.ForwardReaches.Add(1)
	} else {
		b.BackwardReaches.Add(1)
	}
	b.ReachTotalNanos.Add(duration.Nanoseconds())
}

// RecordUniverse implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUniverse(_, pending int) {
	b.Universes.Add(1)
	for {
		cur := b.MaxPending.Load()
		if int64(pending) <= cur || b.MaxPending.CompareAndSwap(cur, int64(pending)) {
			return
		}
	}
}

// RecordComponent implements MetricsCollector.
func (b *BasicMetricsCollector) RecordComponent(states int) {
	b.Components.Add(1)
	b.ComponentStates.Add(int64(states))
}
