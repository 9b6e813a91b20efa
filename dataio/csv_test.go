package dataio

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterfabric/kmeans/point"
)

func TestReadPoints_Basic(t *testing.T) {
	in := "0,0\n0,1\n10,10\n10,11\n"
	pts, err := ReadPoints(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pts, 4)
	assert.Equal(t, []float32{0, 1}, pts[1].Coords)
}

func TestReadPoints_TrailingColumnIgnored(t *testing.T) {
	in := "0,0,label_a\n0,1,label_b\n"
	pts, err := ReadPoints(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, []float32{0, 0}, pts[0].Coords)
}

func TestReadPoints_BlankLinesIgnored(t *testing.T) {
	in := "0,0\n\n0,1\n\n"
	pts, err := ReadPoints(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, pts, 2)
}

func TestReadPoints_DimensionMismatch(t *testing.T) {
	in := "0,0\n0,1,2\n"
	_, err := ReadPoints(strings.NewReader(in))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestWriteThenReadPoints_RoundTrip(t *testing.T) {
	pts := []point.Point{point.New([]float32{1, 2}), point.New([]float32{3, 4})}
	membership := []int32{0, 1}

	var buf strings.Builder
	require.NoError(t, WritePoints(&buf, pts, membership))

	got, err := ReadPoints(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float32{1, 2, 0}, got[0].Coords)
	assert.Equal(t, []float32{3, 4, 1}, got[1].Coords)
}

func TestGenerator_ProducesRequestedShape(t *testing.T) {
	g := Generator{NumPoints: 100, NumClusters: 5, Dim: 3, Rng: rand.New(rand.NewSource(7))}
	pts := g.Generate()
	assert.Len(t, pts, 100)
	for _, p := range pts {
		assert.Equal(t, 3, p.Dim())
		assert.False(t, p.HasNaN())
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	g1 := Generator{NumPoints: 20, NumClusters: 2, Dim: 2, Rng: rand.New(rand.NewSource(42))}
	g2 := Generator{NumPoints: 20, NumClusters: 2, Dim: 2, Rng: rand.New(rand.NewSource(42))}
	assert.Equal(t, g1.Generate(), g2.Generate())
}
