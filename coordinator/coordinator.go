// Package coordinator implements spec.md §4.5's per-epoch protocol: the
// six blocking steps that turn W independent workers into one distributed
// k-means iteration. It is transport-agnostic: every cross-worker
// operation goes through a fabric.Fabric, so the same RunEpoch drives both
// the coordinator (rank 0) and every other worker identically.
package coordinator

import (
	"context"
	"fmt"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/fabric"
	"github.com/clusterfabric/kmeans/membership"
	"github.com/clusterfabric/kmeans/telemetry"
	"github.com/clusterfabric/kmeans/worker"
)

// Result is one epoch's outcome, as seen from this rank.
type Result struct {
	// GlobalLoss is the reduced, broadcast loss for this epoch (same value
	// on every rank).
	GlobalLoss float32

	// Converged is true if the coordinator observed |delta| <= tolerance
	// and broadcast that verdict.
	Converged bool

	// Committed holds the new centroid array after commit, valid only on
	// rank 0. Every other rank receives it again on the next epoch's
	// broadcast.
	Committed []cluster.Cluster

	// Weights holds each cluster's gathered weight just before commit,
	// valid only on rank 0. Diagnostic: commit always resets Weight to 0,
	// so this is the only place the pre-commit mass is observable.
	Weights []float32
}

// RunEpoch executes spec.md §4.5 steps 1-6 once. centroids is the
// coordinator's currently-committed array (ignored on non-root ranks,
// which receive it via Broadcast); prevLoss is the previous epoch's
// GlobalLoss (0 on the first epoch). tol is the convergence tolerance.
// epoch is this call's epoch index, used only to label the gather-step log
// line. logger may be nil, in which case the gather step is not logged.
//
// w performs the local assignment+accumulation for this rank; f is the
// fabric every rank shares. The coordinator (rank 0) is the only rank
// whose Result.Committed is meaningful.
func RunEpoch(ctx context.Context, f fabric.Fabric, w *worker.Worker, centroids []cluster.Cluster, prevLoss, tol float32, epoch int, logger *telemetry.Logger) (Result, error) {
	// Step 1: broadcast centroids.
	var toSend []cluster.Cluster
	if f.Rank() == 0 {
		toSend = centroids
	}
	broadcast, err := f.Broadcast(ctx, toSend)
	if err != nil {
		return Result{}, fmt.Errorf("coordinator: broadcast centroids: %w", err)
	}

	// Step 2: local loss against previous membership, reduced and
	// re-broadcast as globalLoss.
	localLoss, err := w.LocalLoss(broadcast)
	if err != nil {
		return Result{}, fmt.Errorf("coordinator: local loss: %w", err)
	}
	globalLoss, err := f.ReduceSum(ctx, localLoss)
	if err != nil {
		return Result{}, fmt.Errorf("coordinator: reduce loss: %w", err)
	}

	// Step 3: convergence check at the coordinator, broadcast to all.
	var converged bool
	if f.Rank() == 0 {
		converged = absDiff(globalLoss, prevLoss) <= tol
	}
	converged, err = f.BroadcastBool(ctx, converged)
	if err != nil {
		return Result{}, fmt.Errorf("coordinator: broadcast convergence: %w", err)
	}

	res := Result{GlobalLoss: globalLoss, Converged: converged}
	if converged {
		return res, nil
	}

	// Step 4: local assign + accumulate against the just-broadcast
	// centroids.
	local, err := w.AssignAndAccumulate(ctx, broadcast)
	if err != nil {
		return Result{}, fmt.Errorf("coordinator: assign and accumulate: %w", err)
	}

	// Step 5: gather and fuse, rank-ordered.
	gathered, err := f.Gather(ctx, local)
	if err != nil {
		return Result{}, fmt.Errorf("coordinator: gather clusters: %w", err)
	}

	if f.Rank() != 0 {
		return res, nil
	}

	if logger != nil {
		for rank, perWorker := range gathered {
			var weight float32
			for _, c := range perWorker {
				weight += c.Weight
			}
			logger.LogGather(ctx, rank, epoch, weight)
		}
	}

	k := len(broadcast)
	global := make([]cluster.Cluster, k)
	for i, c := range broadcast {
		global[i] = cluster.Identity(c.Centroid.Dim())
		global[i].Centroid = c.Centroid
	}
	for _, perWorker := range gathered {
		for i, c := range perWorker {
			cluster.FuseInto(&global[i], c)
		}
	}

	res.Weights = make([]float32, k)
	for i, c := range global {
		res.Weights[i] = c.Weight
	}

	// Step 6: commit.
	for i := range global {
		global[i].Commit()
	}
	res.Committed = global
	return res, nil
}

// Finalize performs the gather step spec.md §4.5 runs once after the
// epoch loop exits: the coordinator collects every worker's local
// membership slice in rank order, and also derives the roaring-bitmap
// per-cluster view of the same assignment. Non-root ranks get nil back for
// both.
func Finalize(ctx context.Context, f fabric.Fabric, w *worker.Worker) ([]int32, *membership.Sets, error) {
	gathered, err := f.GatherMembership(ctx, w.Membership())
	if err != nil {
		return nil, nil, fmt.Errorf("coordinator: gather memberships: %w", err)
	}
	if f.Rank() != 0 {
		return nil, nil, nil
	}

	total := 0
	for _, part := range gathered {
		total += len(part)
	}
	out := make([]int32, 0, total)
	for _, part := range gathered {
		out = append(out, part...)
	}
	return out, membership.FromDense(out, w.K()), nil
}

func absDiff(a, b float32) float32 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
