package worker

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/point"
)

func pts(coords ...[]float32) []point.Point {
	out := make([]point.Point, len(coords))
	for i, c := range coords {
		out[i] = point.New(c)
	}
	return out
}

func TestAssignAndAccumulate_SingleThread(t *testing.T) {
	chunk := pts([]float32{0, 0}, []float32{0, 1}, []float32{10, 10}, []float32{10, 11})
	w := New(0, chunk, 2, 2, 1, nil)

	centroids := []cluster.Cluster{
		cluster.New(point.New([]float32{0, 0})),
		cluster.New(point.New([]float32{10, 10})),
	}

	got, err := w.AssignAndAccumulate(context.Background(), centroids)
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 0, 1, 1}, w.Membership())
	assert.Equal(t, float32(2), got[0].Weight)
	assert.Equal(t, float32(2), got[1].Weight)
	assert.Equal(t, float32(0), got[0].WorkingSum.Coords[0])
	assert.Equal(t, float32(1), got[0].WorkingSum.Coords[1])
}

func TestAssignAndAccumulate_MultiThreadMatchesSingleThread(t *testing.T) {
	chunk := pts(
		[]float32{0, 0}, []float32{0, 1}, []float32{0, -1}, []float32{0, 2},
		[]float32{10, 10}, []float32{10, 11}, []float32{10, 9}, []float32{10, 12},
	)
	centroids := []cluster.Cluster{
		cluster.New(point.New([]float32{0, 0})),
		cluster.New(point.New([]float32{10, 10})),
	}

	w1 := New(0, chunk, 2, 2, 1, nil)
	got1, err := w1.AssignAndAccumulate(context.Background(), centroids)
	require.NoError(t, err)

	w4 := New(0, chunk, 2, 2, 4, nil)
	got4, err := w4.AssignAndAccumulate(context.Background(), centroids)
	require.NoError(t, err)

	assert.Equal(t, w1.Membership(), w4.Membership())
	for k := range got1 {
		assert.InDelta(t, got1[k].Weight, got4[k].Weight, 1e-6)
		assert.InDelta(t, got1[k].WorkingSum.Coords[0], got4[k].WorkingSum.Coords[0], 1e-5)
		assert.InDelta(t, got1[k].WorkingSum.Coords[1], got4[k].WorkingSum.Coords[1], 1e-5)
	}
}

func TestAssignAndAccumulate_TieBreaksLowestIndex(t *testing.T) {
	chunk := pts([]float32{1, 0})
	centroids := []cluster.Cluster{
		cluster.New(point.New([]float32{0, 0})),
		cluster.New(point.New([]float32{2, 0})),
	}
	w := New(0, chunk, 2, 2, 1, nil)
	_, err := w.AssignAndAccumulate(context.Background(), centroids)
	require.NoError(t, err)
	assert.Equal(t, int32(0), w.Membership()[0])
}

func TestAssignAndAccumulate_NaNPointFails(t *testing.T) {
	nan := pts([]float32{0, 0})
	nan[0].Coords[0] = float32(math.NaN())
	w := New(0, nan, 1, 2, 1, nil)
	centroids := []cluster.Cluster{cluster.New(point.New([]float32{0, 0}))}
	_, err := w.AssignAndAccumulate(context.Background(), centroids)
	assert.ErrorIs(t, err, ErrNaNPoint)
}

func TestLocalLoss_FirstEpochZeroInitialized(t *testing.T) {
	chunk := pts([]float32{3, 4})
	w := New(0, chunk, 2, 2, 1, nil)
	centroids := []cluster.Cluster{
		cluster.New(point.New([]float32{0, 0})),
		cluster.New(point.New([]float32{100, 100})),
	}
	loss, err := w.LocalLoss(centroids)
	require.NoError(t, err)
	assert.Equal(t, float32(5), loss)
}

func TestLocalLoss_WrongCentroidCount(t *testing.T) {
	w := New(0, pts([]float32{0, 0}), 2, 2, 1, nil)
	_, err := w.LocalLoss([]cluster.Cluster{cluster.New(point.New([]float32{0, 0}))})
	assert.Error(t, err)
}
