package prom

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/attractor"
	"github.com/hupe1980/attractor/color"
	"github.com/hupe1980/attractor/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSinkSweep(10, 3, 20*time.Millisecond)
	c.RecordReach(attractor.Forward, 1, 5, time.Millisecond)
	c.RecordReach(attractor.Backward, 1, 7, time.Millisecond)
	c.RecordReach(attractor.Backward, 2, 1, time.Millisecond)
	c.RecordUniverse(8, 2)
	c.RecordUniverse(4, 0)
	c.RecordComponent(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.sinks))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.reachStates.WithLabelValues("forward")))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.reachStates.WithLabelValues("backward")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.reachSeconds))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.universes))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.pending))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.components))

	expected := `
# HELP attractor_components_total Terminal components reported
# TYPE attractor_components_total counter
attractor_components_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "attractor_components_total"))
}

func TestCollector_Run(t *testing.T) {
	alg := color.MustInterval(0, 1)
	b := graph.NewBuilder[color.Params](alg, 4)
	for _, e := range [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 2}} {
		require.NoError(t, b.AddEdge(e[0], e[1], alg.One()))
	}

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	reported := 0
	err := attractor.FindComponents(context.Background(), b.Build(), func(*attractor.StateMap[color.Params]) {
		reported++
	}, attractor.WithMetricsCollector(c))
	require.NoError(t, err)

	assert.Equal(t, 2, reported)
	assert.Equal(t, float64(reported), testutil.ToFloat64(c.components))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.universes))

	path := filepath.Join(t.TempDir(), "attractor.prom")
	require.NoError(t, prometheus.WriteToTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "attractor_components_total 2")
}
