package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/attractor"
	"github.com/hupe1980/attractor/color"
	"github.com/hupe1980/attractor/graph"
)

// GridSteps is the number of grid cells thresholds are drawn from. A coarse
// grid makes random colors share thresholds, which exercises the merge paths.
const GridSteps = 16

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Params returns a random color with at most maxThresholds thresholds drawn
// from a grid of GridSteps cells over the domain of alg.
func (r *RNG) Params(alg *color.Interval, maxThresholds int) color.Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paramsLocked(alg, maxThresholds)
}

// paramsLocked is the internal implementation (caller must hold lock).
func (r *RNG) paramsLocked(alg *color.Interval, maxThresholds int) color.Params {
	maxThresholds = min(maxThresholds, GridSteps-1)
	k := 0
	if maxThresholds > 0 {
		k = r.rand.Intn(maxThresholds + 1)
	}

	// pick k distinct interior grid points in ascending order
	picked := r.rand.Perm(GridSteps - 1)[:k]
	onGrid := make([]bool, GridSteps-1)
	for _, g := range picked {
		onGrid[g] = true
	}
	step := (alg.High() - alg.Low()) / GridSteps
	thresholds := make([]float64, 0, k)
	for g, ok := range onGrid {
		if ok {
			thresholds = append(thresholds, alg.Low()+float64(g+1)*step)
		}
	}

	member := make([]bool, k+1)
	for i := range member {
		member[i] = r.rand.Intn(2) == 1
	}

	p, err := alg.FromCells(thresholds, member)
	if err != nil {
		panic(fmt.Errorf("testutil: generated invalid partition: %w", err))
	}
	return p
}

// Graph returns a random colored graph with the given number of states.
// Every state gets up to maxOut successors; about a third of the edges
// carry the full domain, the rest a random color.
func (r *RNG) Graph(alg *color.Interval, states, maxOut int) *graph.Table[color.Params] {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := graph.NewBuilder[color.Params](alg, states)
	for s := range states {
		out := r.rand.Intn(maxOut + 1)
		for range out {
			t := r.rand.Intn(states)
			c := alg.One()
			if r.rand.Intn(3) != 0 {
				c = r.paramsLocked(alg, 3)
			}
			if err := b.AddEdge(s, t, c); err != nil {
				panic(err)
			}
		}
	}
	return b.Build()
}

// Partition collects reported components and checks that the colors
// reported for each state are pairwise disjoint. It is safe for concurrent use.
type Partition struct {
	alg        *color.Interval
	mu         sync.Mutex
	covered    map[attractor.State]color.Params
	components int
	conflicts  []string
}

// NewPartition creates an empty partition check.
func NewPartition(alg *color.Interval) *Partition {
	return &Partition{
		alg:     alg,
		covered: make(map[attractor.State]color.Params),
	}
}

// Add records one component. Its signature matches the FindComponents callback.
func (p *Partition) Add(component *attractor.StateMap[color.Params]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.components
	p.components++
	component.Range(func(s attractor.State, c color.Params) bool {
		prev, ok := p.covered[s]
		if !ok {
			p.covered[s] = c
			return true
		}
		if overlap := p.alg.And(prev, c); !overlap.IsEmpty() {
			p.conflicts = append(p.conflicts,
				fmt.Sprintf("component %d: state %d reported again for %v", idx, s, overlap))
		}
		p.covered[s] = p.alg.Or(prev, c)
		return true
	})
}

// Components returns the number of recorded components.
func (p *Partition) Components() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.components
}

// Covered returns the union of colors reported for s.
func (p *Partition) Covered(s attractor.State) color.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.covered[s]
}

// Conflicts describes every overlap found so far.
func (p *Partition) Conflicts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.conflicts))
	copy(out, p.conflicts)
	return out
}
