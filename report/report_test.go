package report_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/hupe1980/attractor"
	"github.com/hupe1980/attractor/color"
	"github.com/hupe1980/attractor/graph"
	"github.com/hupe1980/attractor/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func switchModel(t *testing.T, alg *color.Interval) *graph.Table[color.Params] {
	t.Helper()
	b := graph.NewBuilder[color.Params](alg, 3)
	require.NoError(t, b.AddEdge(0, 1, alg.Range(0.3, 0.7)))
	require.NoError(t, b.AddEdge(2, 1, alg.One()))
	return b.Build()
}

func TestCompressionFromPath(t *testing.T) {
	assert.Equal(t, report.CompressionZSTD, report.CompressionFromPath("out/components.jsonl.zst"))
	assert.Equal(t, report.CompressionLZ4, report.CompressionFromPath("components.lz4"))
	assert.Equal(t, report.CompressionNone, report.CompressionFromPath("components.jsonl"))
	assert.Equal(t, "zstd", report.CompressionZSTD.String())
}

func TestWriter_Encoding(t *testing.T) {
	alg := color.MustInterval(0, 1)
	var buf bytes.Buffer
	w, err := report.NewWriter(&buf, alg, report.CompressionNone)
	require.NoError(t, err)

	c := attractor.NewStateMap[color.Params](3, alg)
	c.Union(2, alg.One())
	c.Union(0, alg.Not(alg.Range(0.3, 0.7)))
	require.NoError(t, w.Write(c))
	require.NoError(t, w.Close())

	assert.JSONEq(t,
		`{"component":1,"states":[{"state":0,"intervals":[[0,0.3],[0.7,1]]},{"state":2,"intervals":[[0,1]]}]}`,
		buf.String())
	assert.ErrorIs(t, w.Write(c), report.ErrClosed)
}

func TestWriter_RoundTrip(t *testing.T) {
	alg := color.MustInterval(0, 1)

	for _, c := range []report.CompressionType{report.CompressionNone, report.CompressionLZ4, report.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := report.NewWriter(&buf, alg, c)
			require.NoError(t, err)

			require.NoError(t, attractor.FindComponents(context.Background(), switchModel(t, alg), w.Add))
			require.NoError(t, w.Close())
			assert.Equal(t, 2, w.Count())
			assert.Equal(t, []uint32{0, 1}, w.Covered().ToArray())

			got, err := report.Read(&buf, c)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, 1, got[0].Component)
			assert.Equal(t, 2, got[1].Component)
		})
	}
}

func TestCreate(t *testing.T) {
	alg := color.MustInterval(0, 1)
	path := filepath.Join(t.TempDir(), "components.jsonl.zst")

	w, err := report.Create(path, alg)
	require.NoError(t, err)
	require.NoError(t, attractor.FindComponents(context.Background(), switchModel(t, alg), w.Add))
	require.NoError(t, w.Close())

	got, err := report.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byState := map[attractor.State][][2]float64{}
	for _, c := range got {
		require.Len(t, c.States, 1)
		byState[c.States[0].State] = c.States[0].Intervals
	}
	assert.Equal(t, [][2]float64{{0, 0.3}, {0.7, 1}}, byState[0])
	assert.Equal(t, [][2]float64{{0, 1}}, byState[1])
}
