package attractor_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/attractor"
	"github.com/hupe1980/attractor/color"
	"github.com/hupe1980/attractor/graph"
	"github.com/hupe1980/attractor/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	from, to int
	c        color.Params
}

func build(t *testing.T, alg *color.Interval, states int, edges ...edge) *graph.Table[color.Params] {
	t.Helper()
	b := graph.NewBuilder[color.Params](alg, states)
	for _, e := range edges {
		require.NoError(t, b.AddEdge(e.from, e.to, e.c))
	}
	return b.Build()
}

func collect(t *testing.T, m attractor.Model[color.Params], opts ...attractor.Option) []string {
	t.Helper()
	var out []string
	err := attractor.FindComponents(context.Background(), m, func(c *attractor.StateMap[color.Params]) {
		out = append(out, c.String())
	}, opts...)
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func TestFindComponents_Scenarios(t *testing.T) {
	alg := color.MustInterval(0, 1)
	one := alg.One()

	tests := []struct {
		name   string
		states int
		edges  []edge
		want   []string
	}{
		{
			name:   "single state",
			states: 1,
			want:   []string{"{0: [*]}"},
		},
		{
			name:   "self loop is a sink",
			states: 1,
			edges:  []edge{{0, 0, one}},
			want:   []string{"{0: [*]}"},
		},
		{
			name:   "cycle",
			states: 3,
			edges:  []edge{{0, 1, one}, {1, 2, one}, {2, 0, one}},
			want:   []string{"{0: [*], 1: [*], 2: [*]}"},
		},
		{
			name:   "two disjoint cycles",
			states: 4,
			edges:  []edge{{0, 1, one}, {1, 0, one}, {2, 3, one}, {3, 2, one}},
			want:   []string{"{0: [*], 1: [*]}", "{2: [*], 3: [*]}"},
		},
		{
			name:   "cycle draining into cycle",
			states: 4,
			edges:  []edge{{0, 1, one}, {1, 0, one}, {1, 2, one}, {2, 3, one}, {3, 2, one}},
			want:   []string{"{2: [*], 3: [*]}"},
		},
		{
			name:   "colored transition",
			states: 2,
			edges:  []edge{{0, 1, alg.Range(0.3, 0.7)}},
			want:   []string{"{0: [*|0.3|_|0.7|*]}", "{1: [*]}"},
		},
		{
			name:   "state split between sink and cycle",
			states: 2,
			edges:  []edge{{0, 1, alg.Range(0, 0.5)}, {1, 0, one}},
			want:   []string{"{0: [*|0.5|_], 1: [*|0.5|_]}", "{0: [_|0.5|*]}"},
		},
		{
			name:   "cycle terminal only for some colors",
			states: 3,
			edges:  []edge{{0, 1, one}, {1, 0, one}, {1, 2, alg.Range(0.5, 1)}, {2, 2, one}},
			want:   []string{"{0: [*|0.5|_], 1: [*|0.5|_]}", "{2: [*]}"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := build(t, alg, tt.states, tt.edges...)
			assert.Equal(t, tt.want, collect(t, m, attractor.WithWorkers(2)))
		})
	}
}

// terminalSCCs returns the terminal strongly connected components of m for
// parameter x, each as a sorted member list, in sorted order.
func terminalSCCs(m attractor.Model[color.Params], alg *color.Interval, x float64) []string {
	n := m.StateCount()
	adj := make([][]int, n)
	for s := range n {
		for _, e := range m.Successors(s) {
			if alg.Contains(e.Color, x) {
				adj[s] = append(adj[s], e.State)
			}
		}
	}

	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	comp := make([]int, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	next, count := 0, 0

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range adj[v] {
			if index[w] < 0 {
				strongConnect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] == index[v] {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp[w] = count
				if w == v {
					break
				}
			}
			count++
		}
	}
	for v := range n {
		if index[v] < 0 {
			strongConnect(v)
		}
	}

	terminal := make([]bool, count)
	for i := range terminal {
		terminal[i] = true
	}
	for v := range n {
		for _, w := range adj[v] {
			if comp[v] != comp[w] {
				terminal[comp[v]] = false
			}
		}
	}
	members := make([][]int, count)
	for v := range n {
		if terminal[comp[v]] {
			members[comp[v]] = append(members[comp[v]], v)
		}
	}
	var out []string
	for _, ms := range members {
		if len(ms) > 0 {
			out = append(out, fmt.Sprint(ms))
		}
	}
	sort.Strings(out)
	return out
}

// sliceAt returns the members of each reported component that hold x.
func sliceAt(components []*attractor.StateMap[color.Params], alg *color.Interval, x float64) []string {
	var out []string
	for _, c := range components {
		var ms []int
		c.Range(func(s attractor.State, p color.Params) bool {
			if alg.Contains(p, x) {
				ms = append(ms, s)
			}
			return true
		})
		if len(ms) > 0 {
			out = append(out, fmt.Sprint(ms))
		}
	}
	sort.Strings(out)
	return out
}

func TestFindComponents_MatchesPerColorSCC(t *testing.T) {
	alg := color.MustInterval(0, 1)
	rng := testutil.NewRNG(4711)
	step := (alg.High() - alg.Low()) / testutil.GridSteps

	for round := range 40 {
		states := 2 + rng.Intn(40)
		m := rng.Graph(alg, states, 3)

		for _, workers := range []int{1, 4} {
			var (
				mu         sync.Mutex
				components []*attractor.StateMap[color.Params]
			)
			partition := testutil.NewPartition(alg)
			err := attractor.FindComponents(context.Background(), m, func(c *attractor.StateMap[color.Params]) {
				partition.Add(c)
				mu.Lock()
				components = append(components, c)
				mu.Unlock()
			}, attractor.WithWorkers(workers))
			require.NoError(t, err)
			require.Empty(t, partition.Conflicts(), "round %d workers %d", round, workers)

			for k := range testutil.GridSteps {
				x := alg.Low() + (float64(k)+0.5)*step
				require.Equal(t, terminalSCCs(m, alg, x), sliceAt(components, alg, x),
					"round %d workers %d x=%v", round, workers, x)
			}
		}
	}
}

func TestFindComponents_PartitionLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	alg := color.MustInterval(0, 1)
	rng := testutil.NewRNG(7)
	m := rng.Graph(alg, 2000, 3)

	partition := testutil.NewPartition(alg)
	require.NoError(t, attractor.FindComponents(context.Background(), m, partition.Add, attractor.WithWorkers(8)))
	assert.Empty(t, partition.Conflicts())
	assert.Positive(t, partition.Components())
}

func TestFindComponents_Metrics(t *testing.T) {
	alg := color.MustInterval(0, 1)
	one := alg.One()
	m := build(t, alg, 3, edge{0, 1, one}, edge{1, 2, one}, edge{2, 0, one})

	mc := &attractor.BasicMetricsCollector{}
	collect(t, m, attractor.WithMetricsCollector(mc))

	assert.Equal(t, int64(0), mc.Sinks.Load())
	assert.Equal(t, int64(1), mc.Universes.Load())
	assert.Equal(t, int64(1), mc.ForwardReaches.Load())
	assert.Equal(t, int64(3), mc.BackwardReaches.Load())
	assert.Equal(t, int64(1), mc.Components.Load())
	assert.Equal(t, int64(3), mc.ComponentStates.Load())
}

func TestFindComponents_Logging(t *testing.T) {
	alg := color.MustInterval(0, 1)
	m := build(t, alg, 2, edge{0, 1, alg.Range(0.3, 0.7)})

	var buf bytes.Buffer
	logger := attractor.NewLogger(newJSONHandler(&buf))
	collect(t, m, attractor.WithLogger(logger))

	var msgs []string
	for line := range strings.Lines(buf.String()) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Contains(t, msgs, "sink sweep completed")
	assert.Equal(t, "decomposition completed", msgs[len(msgs)-1])
	assert.Equal(t, 2, countOf(msgs, "terminal component"))
}

func newJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func countOf(xs []string, x string) int {
	n := 0
	for _, v := range xs {
		if v == x {
			n++
		}
	}
	return n
}

// brokenModel reports transitions to states it does not have.
type brokenModel struct {
	alg *color.Interval
}

func (b brokenModel) StateCount() int                     { return 2 }
func (b brokenModel) Solver() color.Algebra[color.Params] { return b.alg }
func (b brokenModel) Successors(s int) []attractor.Edge[color.Params] {
	if s == 0 {
		return []attractor.Edge[color.Params]{{State: 5, Color: b.alg.One()}}
	}
	return nil
}
func (b brokenModel) Predecessors(s int) []attractor.Edge[color.Params] {
	if s == 1 {
		return []attractor.Edge[color.Params]{{State: 7, Color: b.alg.One()}}
	}
	return nil
}

func TestFindComponents_InvariantViolation(t *testing.T) {
	m := brokenModel{alg: color.MustInterval(0, 1)}

	var reported int
	err := attractor.FindComponents[color.Params](context.Background(), m, func(*attractor.StateMap[color.Params]) {
		reported++
	}, attractor.WithWorkers(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, attractor.ErrInvariantViolation)

	var inv *attractor.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, inv.Msg, "state 7")
	assert.Equal(t, 1, reported)
}

func TestFindComponents_Arguments(t *testing.T) {
	alg := color.MustInterval(0, 1)
	ctx := context.Background()

	err := attractor.FindComponents[color.Params](ctx, nil, func(*attractor.StateMap[color.Params]) {})
	assert.ErrorIs(t, err, attractor.ErrNilModel)

	err = attractor.FindComponents[color.Params](ctx, build(t, alg, 1), nil)
	assert.ErrorIs(t, err, attractor.ErrNilCallback)
}

func TestFindComponents_Cancelled(t *testing.T) {
	alg := color.MustInterval(0, 1)
	m := testutil.NewRNG(1).Graph(alg, 100, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := attractor.FindComponents(ctx, m, func(*attractor.StateMap[color.Params]) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindComponents_SerializedCallback(t *testing.T) {
	alg := color.MustInterval(0, 1)
	// every state is a sink
	m := build(t, alg, 500)

	var active, seen int
	var overlap bool
	err := attractor.FindComponents(context.Background(), m, func(c *attractor.StateMap[color.Params]) {
		active++
		if active > 1 {
			overlap = true
		}
		seen++
		active--
	}, attractor.WithWorkers(8))
	require.NoError(t, err)
	assert.False(t, overlap)
	assert.Equal(t, 500, seen)
}

func TestFindComponents_Deterministic(t *testing.T) {
	alg := color.MustInterval(0, 1)
	m := testutil.NewRNG(23).Graph(alg, 300, 3)

	want := collect(t, m, attractor.WithWorkers(1))
	for range 3 {
		got := collect(t, m, attractor.WithWorkers(8))
		assert.True(t, slices.Equal(want, got))
	}
}
