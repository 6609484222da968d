// Package pool provides the explicitly sized worker pool that drives the
// parallel steps of a decomposition run.
//
// Two primitives are offered:
//
//   - Map: run fn for every index in [0, n) on the workers and block until done
//   - Replicate: run the same closure once per worker and block until done
//
// A panic inside a task is captured and returned from the blocking call as a
// *PanicError; the remaining tasks observe a cancelled context.
package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned when a closed pool is used.
var ErrClosed = errors.New("pool: closed")

// DefaultChunkSize is the number of consecutive indices a Map worker claims at once.
const DefaultChunkSize = 64

// PanicError carries a panic recovered from a pool task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("pool: task panicked: %v\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Pool bounds the number of goroutines running tasks at the same time.
type Pool struct {
	size   int
	slots  *semaphore.Weighted
	closed atomic.Bool
}

// New creates a pool with size workers. size <= 0 selects runtime.GOMAXPROCS(0).
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		size:  size,
		slots: semaphore.NewWeighted(int64(size)),
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Close shuts the pool down. Calls after Close return ErrClosed.
func (p *Pool) Close() {
	p.closed.Store(true)
}

// Replicate runs fn once per worker and waits for all of them.
// worker is in [0, Size()).
func (p *Pool) Replicate(ctx context.Context, fn func(ctx context.Context, worker int) error) error {
	if p.closed.Load() {
		return ErrClosed
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := range p.size {
		g.Go(func() (err error) {
			if err := p.slots.Acquire(gctx, 1); err != nil {
				return err
			}
			defer p.slots.Release(1)
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			return fn(gctx, w)
		})
	}
	return g.Wait()
}

// Map runs fn for every index in [0, n). Workers claim chunks of consecutive
// indices, so callers that write results into slot i of a pre-sized slice
// get them back in input order.
func (p *Pool) Map(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		if p.closed.Load() {
			return ErrClosed
		}
		return nil
	}

	chunk := DefaultChunkSize
	if per := n / (p.size * 4); per < chunk {
		chunk = max(per, 1)
	}

	var next atomic.Int64
	return p.Replicate(ctx, func(ctx context.Context, _ int) error {
		for {
			start := int(next.Add(int64(chunk))) - chunk
			if start >= n {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			end := min(start+chunk, n)
			for i := start; i < end; i++ {
				if err := fn(ctx, i); err != nil {
					return err
				}
			}
		}
	})
}
