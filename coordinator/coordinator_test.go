package coordinator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/fabric"
	"github.com/clusterfabric/kmeans/membership"
	"github.com/clusterfabric/kmeans/point"
	"github.com/clusterfabric/kmeans/worker"
)

// runToConvergence drives RunEpoch for one rank until convergence or
// maxEpochs, mirroring the orchestrator's epoch loop closely enough to
// exercise the coordinator protocol end to end without depending on the
// orchestrator package.
func runToConvergence(t *testing.T, f fabric.Fabric, w *worker.Worker, seed []cluster.Cluster, tol float32, maxEpochs int) (finalLoss float32, committed []cluster.Cluster, epochs int) {
	t.Helper()
	current := seed
	var prevLoss float32
	for e := 0; e < maxEpochs; e++ {
		res, err := RunEpoch(context.Background(), f, w, current, prevLoss, tol, e, nil)
		require.NoError(t, err)
		prevLoss = res.GlobalLoss
		epochs = e + 1
		if res.Converged {
			return prevLoss, current, epochs
		}
		if f.Rank() == 0 {
			current = res.Committed
		}
	}
	return prevLoss, current, epochs
}

func TestRunEpoch_S1_TrivialConvergence(t *testing.T) {
	all := []point.Point{
		point.New([]float32{0, 0}),
		point.New([]float32{0, 1}),
		point.New([]float32{10, 10}),
		point.New([]float32{10, 11}),
	}
	seed := []cluster.Cluster{
		cluster.New(point.New([]float32{0, 0})),
		cluster.New(point.New([]float32{10, 10})),
	}

	hub := fabric.NewHub(2)
	chunks := [][]point.Point{all[0:2], all[2:4]}

	var wg sync.WaitGroup
	var committed []cluster.Cluster
	var membershipDense []int32
	var membershipSets *membership.Sets
	wg.Add(2)
	for rank := 0; rank < 2; rank++ {
		go func(rank int) {
			defer wg.Done()
			f := hub.Endpoint(rank)
			w := worker.New(rank, chunks[rank], 2, 2, 1, nil)
			_, final, _ := runToConvergence(t, f, w, seed, 1e-4, 10)
			m, sets, err := Finalize(context.Background(), f, w)
			require.NoError(t, err)
			if rank == 0 {
				committed = final
				membershipDense = m
				membershipSets = sets
			}
		}(rank)
	}
	wg.Wait()

	require.Len(t, committed, 2)
	assert.InDelta(t, 0, committed[0].Centroid.Coords[0], 1e-5)
	assert.InDelta(t, 0.5, committed[0].Centroid.Coords[1], 1e-5)
	assert.InDelta(t, 10, committed[1].Centroid.Coords[0], 1e-5)
	assert.InDelta(t, 10.5, committed[1].Centroid.Coords[1], 1e-5)
	assert.Equal(t, []int32{0, 0, 1, 1}, membershipDense)
	assert.Equal(t, uint64(2), membershipSets.Cardinality(0))
	assert.Equal(t, uint64(2), membershipSets.Cardinality(1))
}

func TestRunEpoch_S3_EmptyClusterUnchanged(t *testing.T) {
	all := []point.Point{
		point.New([]float32{0, 0}),
		point.New([]float32{0, 1}),
		point.New([]float32{1, 0}),
		point.New([]float32{1, 1}),
	}
	far := point.New([]float32{1e6, 1e6})
	seed := []cluster.Cluster{
		cluster.New(point.New([]float32{0, 0})),
		cluster.New(point.New([]float32{1, 1})),
		cluster.New(far),
	}

	hub := fabric.NewHub(1)
	f := hub.Endpoint(0)
	w := worker.New(0, all, 3, 2, 1, nil)

	_, final, _ := runToConvergence(t, f, w, seed, 1e-4, 10)
	m, sets, err := Finalize(context.Background(), f, w)
	require.NoError(t, err)

	require.Len(t, final, 3)
	assert.Equal(t, far.Coords[0], final[2].Centroid.Coords[0])
	assert.Equal(t, far.Coords[1], final[2].Centroid.Coords[1])
	for _, mk := range m {
		assert.NotEqual(t, int32(2), mk)
	}
	assert.True(t, sets.IsEmpty(2))
}

func TestRunEpoch_TieBreakLowestIndex(t *testing.T) {
	chunk := []point.Point{point.New([]float32{1, 0})}
	seed := []cluster.Cluster{
		cluster.New(point.New([]float32{0, 0})),
		cluster.New(point.New([]float32{2, 0})),
	}

	hub := fabric.NewHub(1)
	f := hub.Endpoint(0)
	w := worker.New(0, chunk, 2, 2, 1, nil)

	res, err := RunEpoch(context.Background(), f, w, seed, 0, -1, 0, nil) // tol < 0: never converges early
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, []int32{0}, w.Membership())
}
