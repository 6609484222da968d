package attractor

import (
	"errors"
	"fmt"

	"github.com/hupe1980/attractor/internal/pool"
)

var (
	// ErrInvariantViolation marks a broken logic invariant: a bug in the model
	// or in the color algebra, never a recoverable runtime condition.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNilModel is returned when no model is given.
	ErrNilModel = errors.New("nil model")

	// ErrNilCallback is returned when no component callback is given.
	ErrNilCallback = errors.New("nil component callback")
)

// InvariantError describes a broken invariant that aborted a run.
//
// errors.Is(err, ErrInvariantViolation) reports true for it.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvariantViolation, e.Msg)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}

// translateError turns a worker panic carrying an invariant violation into
// the violation itself. Any other worker panic is re-raised.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pe *pool.PanicError
	if errors.As(err, &pe) {
		if inv, ok := pe.Value.(*InvariantError); ok {
			return inv
		}
		panic(pe)
	}
	return err
}

// recoverInvariant converts an invariant panic raised on the calling
// goroutine into *errp. Other panics propagate.
func recoverInvariant(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if inv, ok := r.(*InvariantError); ok {
		*errp = inv
		return
	}
	panic(r)
}
