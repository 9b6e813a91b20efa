// Package worker implements one rank's local slice of the coordinator
// protocol: holding a chunk of the dataset, running the thread pool over
// it each epoch, and producing the per-worker Clusters fed into the
// cross-worker gather.
package worker

import (
	"context"
	"fmt"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/point"
	"github.com/clusterfabric/kmeans/resource"
)

// ErrNaNPoint indicates a point in a worker's local chunk contains a NaN
// coordinate. This is treated as an input bug: the worker fails the run
// rather than silently producing a degenerate assignment.
var ErrNaNPoint = fmt.Errorf("worker: chunk contains a NaN point")

// Worker holds one rank's local partition and its current assignment
// state. It has no knowledge of other ranks; every cross-worker operation
// is driven by the coordinator through a fabric.Fabric.
type Worker struct {
	rank  int
	chunk []point.Point
	k     int
	dim   int

	pool *threadPool

	membership []int32 // local_membership, one entry per point in chunk
	clusters   []cluster.Cluster
}

// New creates a Worker for the given rank over chunk, with k clusters of
// dimension dim, running its assignment loop across threads threads bounded
// by ctrl (nil gives the worker its own bound of threads).
func New(rank int, chunk []point.Point, k, dim, threads int, ctrl *resource.Controller) *Worker {
	if threads <= 0 {
		threads = 1
	}
	return &Worker{
		rank:       rank,
		chunk:      chunk,
		k:          k,
		dim:        dim,
		pool:       newThreadPool(threads, ctrl),
		membership: make([]int32, len(chunk)),
		clusters:   make([]cluster.Cluster, k),
	}
}

// Rank returns this worker's rank.
func (w *Worker) Rank() int { return w.rank }

// K returns the number of clusters this worker was configured with.
func (w *Worker) K() int { return w.k }

// Len returns the number of points in this worker's local chunk.
func (w *Worker) Len() int { return len(w.chunk) }

// Membership returns the worker's current local membership slice. The
// returned slice is owned by the Worker and must not be retained across
// calls to AssignAndAccumulate.
func (w *Worker) Membership() []int32 { return w.membership }

// AssignAndAccumulate runs spec.md §4.4 steps 2-3: for every point in the
// local chunk, find the nearest of the given centroids (lowest index wins
// ties), record the membership, and accumulate it into a fresh per-worker
// Clusters array built by fusing every thread's private ThreadClusters.
//
// centroids is the just-broadcast committed centroid array; its length
// must equal w.k. The returned Clusters carry only working_sum/weight
// accumulated this epoch — commit is the coordinator's job.
func (w *Worker) AssignAndAccumulate(ctx context.Context, centroids []cluster.Cluster) ([]cluster.Cluster, error) {
	if len(centroids) != w.k {
		return nil, fmt.Errorf("worker: got %d centroids, want %d", len(centroids), w.k)
	}

	fused := make([]cluster.Cluster, w.k)
	for i, c := range centroids {
		fused[i] = cluster.Identity(w.dim)
		fused[i].Centroid = c.Centroid.Clone()
	}

	perThread, err := w.pool.run(ctx, len(w.chunk), w.k, w.dim, func(lo, hi int, local []cluster.Cluster) error {
		for i := lo; i < hi; i++ {
			p := w.chunk[i]
			if p.HasNaN() {
				return ErrNaNPoint
			}
			min := cluster.Argmin(centroids, p)
			w.membership[i] = int32(min)
			local[min].AddPoint(p, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, tc := range perThread {
		for k := range fused {
			cluster.FuseInto(&fused[k], tc[k])
		}
	}

	w.clusters = fused
	return fused, nil
}

// LocalLoss computes spec.md §4.4's per-epoch loss contribution: the sum
// of distances from every point in the local chunk to the centroid its
// *previous* membership points at. On the first epoch, membership is
// zero-initialized (every point assigned to cluster 0), matching the
// spec's "or zero-initialized on the first epoch" clause.
func (w *Worker) LocalLoss(centroids []cluster.Cluster) (float32, error) {
	if len(centroids) != w.k {
		return 0, fmt.Errorf("worker: got %d centroids, want %d", len(centroids), w.k)
	}
	var sum float32
	for i, p := range w.chunk {
		sum += point.Distance(centroids[w.membership[i]].Centroid, p)
	}
	return sum, nil
}

// Close releases the worker's thread pool.
func (w *Worker) Close() { w.pool.close() }
