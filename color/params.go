package color

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// Params is a set of interval cells.
//
// thresholds split the bounded domain into len(thresholds)+1 cells; valid
// flags the member cells. The zero value is the empty set.
type Params struct {
	thresholds []float64
	valid      *bitset.BitSet
}

// Thresholds returns a copy of the cell boundaries.
func (p Params) Thresholds() []float64 {
	if len(p.thresholds) == 0 {
		return nil
	}
	out := make([]float64, len(p.thresholds))
	copy(out, p.thresholds)
	return out
}

// Cells returns the number of cells in the partition.
func (p Params) Cells() int { return len(p.thresholds) + 1 }

// Member reports whether the given cell belongs to the set.
func (p Params) Member(cell int) bool {
	if p.valid == nil || cell < 0 {
		return false
	}
	return p.valid.Test(uint(cell))
}

// IsEmpty reports whether no cell is a member.
func (p Params) IsEmpty() bool {
	return p.valid == nil || p.valid.None()
}

// Equal reports structural equality.
func (p Params) Equal(o Params) bool {
	if len(p.thresholds) != len(o.thresholds) {
		return false
	}
	for i, t := range p.thresholds {
		if t != o.thresholds[i] {
			return false
		}
	}
	for cell := range p.Cells() {
		if p.Member(cell) != o.Member(cell) {
			return false
		}
	}
	return true
}

// Hash returns a structural hash consistent with Equal.
func (p Params) Hash() uint64 {
	buf := make([]byte, 0, 8*len(p.thresholds)+p.Cells())
	for _, t := range p.thresholds {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(t))
	}
	for cell := range p.Cells() {
		if p.Member(cell) {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return xxhash.Sum64(buf)
}

// String renders the partition, e.g. [_|0.3|*|0.7|_].
func (p Params) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for cell := range p.Cells() {
		if cell != 0 {
			sb.WriteByte('|')
			sb.WriteString(strconv.FormatFloat(p.thresholds[cell-1], 'g', -1, 64))
			sb.WriteByte('|')
		}
		if p.Member(cell) {
			sb.WriteByte('*')
		} else {
			sb.WriteByte('_')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// simplify drops every threshold whose neighbouring cells agree on membership.
func simplify(thresholds []float64, valid *bitset.BitSet) Params {
	if valid.None() {
		return Params{}
	}
	reduced := make([]float64, 0, len(thresholds))
	for before := range thresholds {
		if valid.Test(uint(before)) != valid.Test(uint(before+1)) {
			reduced = append(reduced, thresholds[before])
		}
	}

	reducedValid := bitset.New(uint(len(reduced) + 1))
	cell := 0
	for before := range thresholds {
		if valid.Test(uint(before)) != valid.Test(uint(before+1)) {
			if valid.Test(uint(before)) {
				reducedValid.Set(uint(cell))
			}
			cell++
		}
	}
	if valid.Test(uint(len(thresholds))) {
		reducedValid.Set(uint(cell))
	}

	if len(reduced) == 0 {
		reduced = nil
	}
	return Params{thresholds: reduced, valid: reducedValid}
}

// mergeThresholds merges two ascending threshold lists, keeping shared values once.
func mergeThresholds(a, b []float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
