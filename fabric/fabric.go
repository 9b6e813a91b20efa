// Package fabric defines the narrow cross-worker-aggregation interface the
// coordinator protocol is built on, and ships one reference implementation.
//
// The interface mirrors the five blocking operations spec.md §9 names:
// scatter, broadcast, reduce_sum, gather and gather_variable. Any
// distributed-memory substrate that provides them with in-order delivery
// per source can stand in for Fabric; InProcess runs every rank as a
// goroutine and every operation as a channel round-trip.
package fabric

import (
	"context"
	"fmt"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/point"
)

// Fabric is the cross-worker communication surface a coordinator and its
// workers share. Rank 0 is always the coordinator.
type Fabric interface {
	// Rank returns this endpoint's rank in [0, World).
	Rank() int

	// World returns the number of ranks in the run.
	World() int

	// Scatter distributes a per-rank slice of points from rank 0: rank 0
	// passes the full partition (len(chunks) == World); every other rank
	// passes nil and receives its chunk back.
	Scatter(ctx context.Context, chunks [][]point.Point) ([]point.Point, error)

	// Broadcast sends centroids from rank 0 to every rank, returning the
	// same value back to every caller including rank 0.
	Broadcast(ctx context.Context, centroids []cluster.Cluster) ([]cluster.Cluster, error)

	// BroadcastBool broadcasts a single boolean from rank 0 (used for the
	// convergence flag).
	BroadcastBool(ctx context.Context, v bool) (bool, error)

	// ReduceSum sums a scalar across every rank, returning the total at
	// every rank (spec.md's reduce_sum is root-only; broadcasting the
	// result back is folded in here since every worker needs globalLoss
	// for its own bookkeeping).
	ReduceSum(ctx context.Context, local float32) (float32, error)

	// Gather collects one []cluster.Cluster per rank at rank 0, in rank
	// order. Non-root ranks get nil back.
	Gather(ctx context.Context, local []cluster.Cluster) ([][]cluster.Cluster, error)

	// GatherMembership collects one local membership slice per rank at
	// rank 0, in rank order; concatenating them in that order gives the
	// global point ordering. Non-root ranks get nil back.
	GatherMembership(ctx context.Context, local []int32) ([][]int32, error)
}

// ErrWorldMismatch indicates a Scatter call with the wrong number of
// chunks.
var ErrWorldMismatch = fmt.Errorf("fabric: chunk count does not match world size")
