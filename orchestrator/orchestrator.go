// Package orchestrator drives the state machine spec.md §4.6 describes:
// INIT, READY, the per-epoch cycle, FINALIZE, DONE/FAILED. It owns the
// fabric, seeds the dataset, partitions it across workers, and runs the
// coordinator protocol to completion.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/coordinator"
	"github.com/clusterfabric/kmeans/fabric"
	"github.com/clusterfabric/kmeans/membership"
	"github.com/clusterfabric/kmeans/point"
	"github.com/clusterfabric/kmeans/seed"
	"github.com/clusterfabric/kmeans/telemetry"
	"github.com/clusterfabric/kmeans/worker"
)

// Report summarizes a finished run.
type Report struct {
	Epochs     int
	Converged  bool
	FinalLoss  float32
	Centroids  []cluster.Cluster
	Membership []int32

	// MembershipSets is the same assignment as Membership, as a
	// roaring-bitmap per-cluster view. cmd/kmeans writes its output CSV
	// from this, not from Membership directly.
	MembershipSets *membership.Sets
}

// fail logs err as the run's fatal condition (if logger is non-nil) and
// returns it unchanged, so every fatal return in Run can stay a one-liner.
func fail(ctx context.Context, logger *telemetry.Logger, stage string, err error) error {
	if logger != nil {
		logger.LogFatal(ctx, stage, err)
	}
	return err
}

// Run executes INIT through DONE/FAILED over dataset, using cfg's
// parameters. It returns a fatal error (never partial output) if any of
// spec.md §7's fatal conditions hold.
func Run(ctx context.Context, cfg Config, dataset []point.Point) (Report, error) {
	// INIT
	if cfg.K < 1 {
		return Report{}, fail(ctx, cfg.logger, "init", ErrInvalidK)
	}
	if cfg.Workers <= 0 {
		return Report{}, fail(ctx, cfg.logger, "init", ErrInvalidWorkers)
	}
	if len(dataset) == 0 {
		return Report{}, fail(ctx, cfg.logger, "init", ErrEmptyDataset)
	}
	if len(dataset) < cfg.K {
		return Report{}, fail(ctx, cfg.logger, "init", ErrTooFewPoints)
	}
	dim := dataset[0].Dim()
	for i, p := range dataset {
		if p.Dim() != dim {
			return Report{}, fail(ctx, cfg.logger, "init", fmt.Errorf("orchestrator: point %d has dimension %d, want %d", i, p.Dim(), dim))
		}
	}

	// READY: seed, then partition the dataset so rank 0 can scatter it.
	method, err := seed.ByName(cfg.InitMethod)
	if err != nil {
		return Report{}, fail(ctx, cfg.logger, "ready", fmt.Errorf("%w: %w", ErrDatasetLoad, err))
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	seeds, err := method.Seed(dataset, cfg.K, rng)
	if err != nil {
		return Report{}, fail(ctx, cfg.logger, "ready", fmt.Errorf("%w: %w", ErrDatasetLoad, err))
	}
	cfg.logger.LogSeed(ctx, cfg.InitMethod, cfg.K)

	centroids := make([]cluster.Cluster, cfg.K)
	for i, c := range seeds {
		centroids[i] = cluster.New(c)
	}

	chunks := partition(dataset, cfg.Workers)

	var tracer *traceWriter
	if cfg.TracePath != "" {
		tracer, err = newTraceWriter(cfg.TracePath)
		if err != nil {
			return Report{}, fail(ctx, cfg.logger, "ready", fmt.Errorf("orchestrator: open trace: %w", err))
		}
		defer tracer.Close()
	}

	// Epoch cycle, run once per rank via RunEpoch; this reference
	// implementation drives every rank's loop from a single goroutine per
	// rank, since fabric.InProcess requires one caller per rank per
	// collective round. Each rank's goroutine opens with a Scatter call,
	// which is also the mechanism that hands it its partition of dataset
	// (rank 0 supplies chunks, every rank receives its own slice back) --
	// matching spec.md §4.6's READY state, where scatter is what actually
	// partitions the run, not a local slice operation. A fatal error on
	// any rank cancels the group's context, which unblocks every other
	// rank's in-flight collective (fabric.InProcess.join selects on
	// ctx.Done), matching spec.md §7's "a worker failure aborts the run"
	// via a fabric abort.
	g, gctx := errgroup.WithContext(ctx)
	hub := fabric.NewHub(cfg.Workers)

	for r := 1; r < cfg.Workers; r++ {
		r := r
		g.Go(func() error {
			f := hub.Endpoint(r)
			chunk, err := f.Scatter(gctx, nil)
			if err != nil {
				return fmt.Errorf("orchestrator: rank %d scatter: %w", r, err)
			}
			w := worker.New(r, chunk, cfg.K, dim, cfg.Threads, nil)
			defer w.Close()
			return runWorkerLoop(gctx, f, w, centroids, cfg.MaxEpochs, cfg.Tolerance)
		})
	}

	var report Report
	g.Go(func() error {
		f := hub.Endpoint(0)
		chunk, err := f.Scatter(gctx, chunks)
		if err != nil {
			return fmt.Errorf("orchestrator: rank 0 scatter: %w", err)
		}
		w := worker.New(0, chunk, cfg.K, dim, cfg.Threads, nil)
		defer w.Close()

		rep, err := runCoordinatorLoop(gctx, f, w, centroids, cfg, tracer)
		if err != nil {
			return err
		}
		report = rep
		return nil
	})

	if err := g.Wait(); err != nil {
		return Report{}, fail(ctx, cfg.logger, "epoch", err)
	}
	return report, nil
}

// partition splits dataset into w contiguous, near-equal chunks.
func partition(dataset []point.Point, w int) [][]point.Point {
	chunks := make([][]point.Point, w)
	base := len(dataset) / w
	rem := len(dataset) % w
	offset := 0
	for i := 0; i < w; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks[i] = dataset[offset : offset+size]
		offset += size
	}
	return chunks
}

// runWorkerLoop drives a non-coordinator rank's side of the epoch cycle:
// it must call RunEpoch the same number of times as the coordinator, with
// the same convergence outcome, since every collective is a rendezvous.
func runWorkerLoop(ctx context.Context, f fabric.Fabric, w *worker.Worker, centroids []cluster.Cluster, maxEpochs int, tol float32) error {
	var prevLoss float32
	for e := 0; e < maxEpochs; e++ {
		res, err := coordinator.RunEpoch(ctx, f, w, centroids, prevLoss, tol, e, nil)
		if err != nil {
			return fmt.Errorf("orchestrator: rank %d epoch %d: %w", f.Rank(), e, err)
		}
		prevLoss = res.GlobalLoss
		if res.Converged {
			break
		}
	}
	if _, _, err := coordinator.Finalize(ctx, f, w); err != nil {
		return fmt.Errorf("orchestrator: rank %d finalize: %w", f.Rank(), err)
	}
	return nil
}

// runCoordinatorLoop drives rank 0's side: it owns the committed centroid
// array across epochs and produces the final Report.
func runCoordinatorLoop(ctx context.Context, f fabric.Fabric, w *worker.Worker, centroids []cluster.Cluster, cfg Config, tracer *traceWriter) (Report, error) {
	current := centroids
	var prevLoss float32
	epoch := 0
	converged := false

	for ; epoch < cfg.MaxEpochs; epoch++ {
		res, err := coordinator.RunEpoch(ctx, f, w, current, prevLoss, cfg.Tolerance, epoch, cfg.logger)
		if err != nil {
			return Report{}, fmt.Errorf("orchestrator: epoch %d: %w", epoch, err)
		}
		prevLoss = res.GlobalLoss
		cfg.logger.LogEpoch(ctx, epoch, res.GlobalLoss, res.Converged)
		if tracer != nil {
			if err := tracer.WriteEpoch(epoch, res.GlobalLoss, res.Weights); err != nil {
				return Report{}, fmt.Errorf("orchestrator: write trace: %w", err)
			}
		}
		if res.Converged {
			converged = true
			epoch++
			break
		}
		current = res.Committed
	}
	cfg.logger.LogConvergence(ctx, epoch, converged)

	dense, sets, err := coordinator.Finalize(ctx, f, w)
	if err != nil {
		return Report{}, fmt.Errorf("orchestrator: finalize: %w", err)
	}

	return Report{
		Epochs:         epoch,
		Converged:      converged,
		FinalLoss:      prevLoss,
		Centroids:      current,
		Membership:     dense,
		MembershipSets: sets,
	}, nil
}
