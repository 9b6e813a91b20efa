package cluster

import (
	"bytes"
	"testing"

	"github.com/clusterfabric/kmeans/point"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPointAndCommit(t *testing.T) {
	c := New(point.New([]float32{0, 0}))
	c.AddPoint(point.New([]float32{0, 0}), 1)
	c.AddPoint(point.New([]float32{0, 1}), 1)
	c.Commit()

	assert.Equal(t, point.New([]float32{0, 0.5}), c.Centroid)
	assert.Equal(t, float32(0), c.Weight)
	assert.Equal(t, point.Zero(2), c.WorkingSum)
}

func TestCommitEmptyClusterIsNoop(t *testing.T) {
	centroid := point.New([]float32{1e6, 1e6})
	c := New(centroid)
	c.Commit()
	assert.Equal(t, centroid, c.Centroid)
}

func TestFuseMonoidAssociativeAndCommutative(t *testing.T) {
	mk := func(sum []float32, w float32) Cluster {
		return Cluster{Centroid: point.New([]float32{0, 0}), WorkingSum: point.New(sum), Weight: w}
	}
	a := mk([]float32{1, 2}, 1)
	b := mk([]float32{3, 4}, 2)
	c := mk([]float32{5, 6}, 3)

	ab_c := Fuse(Fuse(a, b), c)
	a_bc := Fuse(a, Fuse(b, c))
	assert.Equal(t, ab_c.WorkingSum, a_bc.WorkingSum)
	assert.Equal(t, ab_c.Weight, a_bc.Weight)

	fab := Fuse(a, b)
	fba := Fuse(b, a)
	assert.Equal(t, fab.WorkingSum, fba.WorkingSum)
	assert.Equal(t, fab.Weight, fba.Weight)
}

func TestFuseIdentity(t *testing.T) {
	a := Cluster{Centroid: point.New([]float32{9, 9}), WorkingSum: point.New([]float32{1, 1}), Weight: 2}
	id := Identity(2)
	id.Centroid = a.Centroid
	fused := Fuse(a, id)
	assert.Equal(t, a.WorkingSum, fused.WorkingSum)
	assert.Equal(t, a.Weight, fused.Weight)
}

func TestArgminTieBreakLowestIndex(t *testing.T) {
	clusters := []Cluster{
		New(point.New([]float32{0, 0})),
		New(point.New([]float32{2, 0})),
	}
	got := Argmin(clusters, point.New([]float32{1, 0}))
	assert.Equal(t, 0, got)
}

func TestWireRoundTrip(t *testing.T) {
	c := Cluster{
		Centroid:   point.New([]float32{1, 2}),
		WorkingSum: point.New([]float32{3, 4}),
		Weight:     5,
	}
	var buf bytes.Buffer
	require.NoError(t, c.EncodeTo(&buf))
	assert.Equal(t, WireSize, buf.Len())

	got, err := Decode(&buf, 2)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
