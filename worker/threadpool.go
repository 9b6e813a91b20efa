package worker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/resource"
)

// threadPool runs the per-epoch assignment+accumulation loop across a
// fixed number of threads, one disjoint index range per thread. It is the
// shared-memory half of spec.md §5's two-level parallelism model, shaped
// after the teacher's fixed-goroutine WorkerPool but partitioned by index
// range rather than by submitted closures, since the per-point work here
// is too fine-grained to justify a closure per point.
type threadPool struct {
	n    int
	ctrl *resource.Controller
}

func newThreadPool(n int, ctrl *resource.Controller) *threadPool {
	if n <= 0 {
		n = 1
	}
	if ctrl == nil {
		ctrl = resource.NewController(resource.Config{MaxThreads: int64(n)})
	}
	return &threadPool{n: n, ctrl: ctrl}
}

// run partitions [0, count) into at most tp.n contiguous ranges and calls
// fn once per non-empty range, each against its own private identity
// Clusters array of size k and dimension dim. It returns one Clusters
// array per range in range order; the caller fuses them.
func (tp *threadPool) run(ctx context.Context, count, k, dim int, fn func(lo, hi int, local []cluster.Cluster) error) ([][]cluster.Cluster, error) {
	threads := tp.n
	if threads > count {
		threads = count
	}
	if threads <= 0 {
		threads = 1
	}

	chunk := (count + threads - 1) / threads
	results := make([][]cluster.Cluster, 0, threads)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		lo := t * chunk
		hi := lo + chunk
		if hi > count {
			hi = count
		}
		if lo >= hi {
			break
		}

		local := identityClusters(k, dim)
		results = append(results, local)

		g.Go(func() error {
			if err := tp.ctrl.AcquireThread(gctx); err != nil {
				return err
			}
			defer tp.ctrl.ReleaseThread()
			return fn(lo, hi, local)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (tp *threadPool) close() {}

func identityClusters(k, dim int) []cluster.Cluster {
	out := make([]cluster.Cluster, k)
	for i := range out {
		out[i] = cluster.Identity(dim)
	}
	return out
}
