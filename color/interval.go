package color

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrInvalidBounds is returned when a parameter domain is empty or not finite.
	ErrInvalidBounds = errors.New("invalid parameter bounds")

	// ErrInvalidPartition is returned when thresholds and cell flags do not describe a partition.
	ErrInvalidPartition = errors.New("invalid interval partition")
)

// Compile time check to ensure Interval satisfies the Algebra interface.
var _ Algebra[Params] = (*Interval)(nil)

// Interval is the Boolean algebra of finite unions of cells of the bounded
// axis [Low, High].
type Interval struct {
	lo, hi float64
	one    Params
}

// NewInterval creates the algebra over [lo, hi].
func NewInterval(lo, hi float64) (*Interval, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo >= hi {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidBounds, lo, hi)
	}
	return &Interval{
		lo:  lo,
		hi:  hi,
		one: Params{valid: bitset.New(1).Set(0)},
	}, nil
}

// MustInterval is like NewInterval but panics on invalid bounds.
func MustInterval(lo, hi float64) *Interval {
	a, err := NewInterval(lo, hi)
	if err != nil {
		panic(err)
	}
	return a
}

// Low returns the lower bound of the domain.
func (a *Interval) Low() float64 { return a.lo }

// High returns the upper bound of the domain.
func (a *Interval) High() float64 { return a.hi }

// Zero implements Algebra.
func (a *Interval) Zero() Params { return Params{} }

// One implements Algebra.
func (a *Interval) One() Params { return a.one }

// IsEmpty implements Algebra.
func (a *Interval) IsEmpty(p Params) bool { return p.IsEmpty() }

// IsNotEmpty implements Algebra.
func (a *Interval) IsNotEmpty(p Params) bool { return !p.IsEmpty() }

// And implements Algebra.
func (a *Interval) And(x, y Params) Params {
	if x.IsEmpty() || y.IsEmpty() {
		return Params{}
	}
	return combine(x, y, func(l, r bool) bool { return l && r })
}

// Or implements Algebra.
func (a *Interval) Or(x, y Params) Params {
	if x.IsEmpty() {
		return y
	}
	if y.IsEmpty() {
		return x
	}
	return combine(x, y, func(l, r bool) bool { return l || r })
}

// Not implements Algebra.
func (a *Interval) Not(x Params) Params {
	if x.IsEmpty() {
		return a.one
	}
	cells := uint(x.Cells())
	flipped := x.valid.Clone()
	flipped.FlipRange(0, cells)
	if flipped.None() {
		return Params{}
	}
	return Params{thresholds: x.thresholds, valid: flipped}
}

// Subset implements Algebra.
func (a *Interval) Subset(x, y Params) bool {
	if x.IsEmpty() {
		return true
	}
	if y.IsEmpty() {
		return false
	}
	merged := mergeThresholds(x.thresholds, y.thresholds)
	ix, iy := 0, 0
	for _, t := range merged {
		// x => y must hold in every cell
		if x.Member(ix) && !y.Member(iy) {
			return false
		}
		ix, iy = advance(x, ix, t), advance(y, iy, t)
	}
	return !x.Member(ix) || y.Member(iy)
}

// Range returns the cells of [lo, hi] inside the domain.
//
// NaN endpoints yield One. An intersection with the domain that is empty or a
// single point yields Zero.
func (a *Interval) Range(lo, hi float64) Params {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return a.one
	}
	low, high := max(lo, a.lo), min(hi, a.hi)
	if low >= high {
		return Params{}
	}
	switch {
	case low == a.lo && high == a.hi:
		return a.one
	case low == a.lo:
		return Params{thresholds: []float64{high}, valid: bitset.New(2).Set(0)}
	case high == a.hi:
		return Params{thresholds: []float64{low}, valid: bitset.New(2).Set(1)}
	default:
		return Params{thresholds: []float64{low, high}, valid: bitset.New(3).Set(1)}
	}
}

// FromCells builds a color from explicit thresholds and per-cell membership.
// thresholds must be strictly ascending and lie strictly inside the domain;
// member must have len(thresholds)+1 entries. The result is canonical.
func (a *Interval) FromCells(thresholds []float64, member []bool) (Params, error) {
	if len(member) != len(thresholds)+1 {
		return Params{}, fmt.Errorf("%w: %d thresholds need %d cells, got %d",
			ErrInvalidPartition, len(thresholds), len(thresholds)+1, len(member))
	}
	prev := a.lo
	for i, t := range thresholds {
		if math.IsNaN(t) || t <= prev || t >= a.hi {
			return Params{}, fmt.Errorf("%w: threshold %d (%v) out of order or outside [%v, %v]",
				ErrInvalidPartition, i, t, a.lo, a.hi)
		}
		prev = t
	}
	valid := bitset.New(uint(len(member)))
	for cell, m := range member {
		if m {
			valid.Set(uint(cell))
		}
	}
	owned := make([]float64, len(thresholds))
	copy(owned, thresholds)
	return simplify(owned, valid), nil
}

// Intervals lists the member sub-intervals of p as [low, high] pairs.
func (a *Interval) Intervals(p Params) [][2]float64 {
	if p.IsEmpty() {
		return nil
	}
	var out [][2]float64
	for cell := range p.Cells() {
		if !p.Member(cell) {
			continue
		}
		low, high := a.lo, a.hi
		if cell > 0 {
			low = p.thresholds[cell-1]
		}
		if cell < len(p.thresholds) {
			high = p.thresholds[cell]
		}
		out = append(out, [2]float64{low, high})
	}
	return out
}

// Contains reports whether parameter value x belongs to p.
// A threshold value belongs to the cell it closes.
func (a *Interval) Contains(p Params, x float64) bool {
	if math.IsNaN(x) || x < a.lo || x > a.hi {
		return false
	}
	return p.Member(sort.SearchFloat64s(p.thresholds, x))
}

func combine(x, y Params, op func(l, r bool) bool) Params {
	merged := mergeThresholds(x.thresholds, y.thresholds)
	valid := bitset.New(uint(len(merged) + 1))
	ix, iy := 0, 0
	for cell, t := range merged {
		if op(x.Member(ix), y.Member(iy)) {
			valid.Set(uint(cell))
		}
		ix, iy = advance(x, ix, t), advance(y, iy, t)
	}
	if op(x.Member(ix), y.Member(iy)) {
		valid.Set(uint(len(merged)))
	}
	return simplify(merged, valid)
}

// advance moves to the next source cell when t closes the current one.
func advance(p Params, cell int, t float64) int {
	if cell < len(p.thresholds) && p.thresholds[cell] == t {
		return cell + 1
	}
	return cell
}
