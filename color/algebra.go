package color

// Algebra is a Boolean lattice over colors of type P.
//
// Implementations must be safe for concurrent use and treat values as
// immutable: every operation returns a new value (or one of its operands).
//
// Laws: And/Or are commutative, associative and idempotent, Not is an
// involution obeying De Morgan relative to One, and
// Subset(a, b) == Equal(Or(a, b), b) == Equal(And(a, b), a).
type Algebra[P any] interface {
	// Zero returns the empty color.
	Zero() P

	// One returns the color covering the whole domain.
	One() P

	// And returns the intersection of a and b.
	And(a, b P) P

	// Or returns the union of a and b.
	Or(a, b P) P

	// Not returns the complement of a relative to One.
	Not(a P) P

	// Subset reports whether every member of a is a member of b.
	Subset(a, b P) bool

	// IsEmpty reports whether a equals Zero.
	IsEmpty(a P) bool

	// IsNotEmpty reports whether a has at least one member.
	IsNotEmpty(a P) bool
}

// Merge folds items with op pairwise in a balanced tree.
// It returns identity when items is empty. items is not modified.
func Merge[P any](items []P, identity P, op func(a, b P) P) P {
	switch len(items) {
	case 0:
		return identity
	case 1:
		return items[0]
	}

	level := mergePairs(items, op)
	for len(level) > 1 {
		// mergePairs never writes past the read position, so the level can be
		// folded in place once it is no longer the caller's slice.
		level = mergePairsInPlace(level, op)
	}
	return level[0]
}

func mergePairs[P any](items []P, op func(a, b P) P) []P {
	out := make([]P, 0, (len(items)+1)/2)
	i := 0
	for ; i+1 < len(items); i += 2 {
		out = append(out, op(items[i], items[i+1]))
	}
	if i < len(items) {
		out = append(out, items[i])
	}
	return out
}

func mergePairsInPlace[P any](items []P, op func(a, b P) P) []P {
	n := 0
	i := 0
	for ; i+1 < len(items); i += 2 {
		items[n] = op(items[i], items[i+1])
		n++
	}
	if i < len(items) {
		items[n] = items[i]
		n++
	}
	var zero P
	for j := n; j < len(items); j++ {
		items[j] = zero
	}
	return items[:n]
}
