package attractor

import "context"

// FindPivots exposes the pivot cover to external tests.
func FindPivots[P any](ctx context.Context, m Model[P], universe *StateMap[P]) (res *StateMap[P], err error) {
	r := newRun(m, nil)
	defer r.close()
	defer recoverInvariant(&err)
	return r.findPivots(ctx, universe)
}
