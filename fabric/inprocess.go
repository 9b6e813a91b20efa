package fabric

import (
	"context"
	"fmt"
	"sync"

	"github.com/clusterfabric/kmeans/cluster"
	"github.com/clusterfabric/kmeans/point"
)

// Hub is the shared rendezvous point behind every InProcess endpoint in a
// run. One Hub per run, one Endpoint per rank.
//
// Each collective operation (Scatter/Broadcast/ReduceSum/Gather/...) is a
// named "round": the first rank to call it opens a round that accumulates
// one contribution per rank, keyed by that rank's index so results come
// back in rank order without an explicit receive loop. The round that
// collects the World-th contribution computes the result and releases
// every blocked caller. This is the same fan-out/fan-in shape as a
// channel-based shard gather, generalized to every collective the
// coordinator protocol needs.
type Hub struct {
	world int

	mu      sync.Mutex
	current map[string]*round
}

type round struct {
	mu      sync.Mutex
	n       int
	data    []any
	results []any
	done    chan struct{}
}

// NewHub creates a Hub for a run with the given number of ranks.
func NewHub(world int) *Hub {
	if world <= 0 {
		world = 1
	}
	return &Hub{world: world, current: make(map[string]*round)}
}

// Endpoint returns the Fabric handle for the given rank. rank 0 is the
// coordinator.
func (h *Hub) Endpoint(rank int) *InProcess {
	return &InProcess{hub: h, rank: rank}
}

// join submits contribution under the name op at this round, blocking until
// every rank has joined, then returns this rank's share of compute's
// output. compute receives contributions indexed by rank and must return a
// slice of the same length, likewise indexed by rank.
func (h *Hub) join(ctx context.Context, op string, rank int, contribution any, compute func([]any) []any) (any, error) {
	h.mu.Lock()
	r := h.current[op]
	if r == nil {
		r = &round{data: make([]any, h.world), done: make(chan struct{})}
		h.current[op] = r
	}
	h.mu.Unlock()

	r.mu.Lock()
	r.data[rank] = contribution
	r.n++
	isLast := r.n == h.world
	if isLast {
		h.mu.Lock()
		delete(h.current, op)
		h.mu.Unlock()
	}
	r.mu.Unlock()

	if isLast {
		r.results = compute(r.data)
		close(r.done)
	}

	select {
	case <-r.done:
		return r.results[rank], nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InProcess is a Fabric endpoint backed by a Hub: every rank is a goroutine
// in the same process, every collective is a channel rendezvous.
type InProcess struct {
	hub  *Hub
	rank int
}

var _ Fabric = (*InProcess)(nil)

func (p *InProcess) Rank() int  { return p.rank }
func (p *InProcess) World() int { return p.hub.world }

func (p *InProcess) Scatter(ctx context.Context, chunks [][]point.Point) ([]point.Point, error) {
	if p.rank == 0 && len(chunks) != p.hub.world {
		return nil, fmt.Errorf("%w: got %d chunks for world %d", ErrWorldMismatch, len(chunks), p.hub.world)
	}
	res, err := p.hub.join(ctx, "scatter", p.rank, chunks, func(data []any) []any {
		root := data[0].([][]point.Point)
		out := make([]any, len(data))
		for i := range out {
			out[i] = root[i]
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	return res.([]point.Point), nil
}

func (p *InProcess) Broadcast(ctx context.Context, centroids []cluster.Cluster) ([]cluster.Cluster, error) {
	res, err := p.hub.join(ctx, "broadcast", p.rank, centroids, func(data []any) []any {
		root := data[0].([]cluster.Cluster)
		out := make([]any, len(data))
		for i := range out {
			out[i] = root
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	return res.([]cluster.Cluster), nil
}

func (p *InProcess) BroadcastBool(ctx context.Context, v bool) (bool, error) {
	res, err := p.hub.join(ctx, "broadcast_bool", p.rank, v, func(data []any) []any {
		root := data[0].(bool)
		out := make([]any, len(data))
		for i := range out {
			out[i] = root
		}
		return out
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

func (p *InProcess) ReduceSum(ctx context.Context, local float32) (float32, error) {
	res, err := p.hub.join(ctx, "reduce_sum", p.rank, local, func(data []any) []any {
		var sum float32
		for _, v := range data {
			sum += v.(float32)
		}
		out := make([]any, len(data))
		for i := range out {
			out[i] = sum
		}
		return out
	})
	if err != nil {
		return 0, err
	}
	return res.(float32), nil
}

func (p *InProcess) Gather(ctx context.Context, local []cluster.Cluster) ([][]cluster.Cluster, error) {
	res, err := p.hub.join(ctx, "gather", p.rank, local, func(data []any) []any {
		gathered := make([][]cluster.Cluster, len(data))
		for i, v := range data {
			gathered[i] = v.([]cluster.Cluster)
		}
		out := make([]any, len(data))
		out[0] = gathered
		return out
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return res.([][]cluster.Cluster), nil
}

func (p *InProcess) GatherMembership(ctx context.Context, local []int32) ([][]int32, error) {
	res, err := p.hub.join(ctx, "gather_membership", p.rank, local, func(data []any) []any {
		gathered := make([][]int32, len(data))
		for i, v := range data {
			gathered[i] = v.([]int32)
		}
		out := make([]any, len(data))
		out[0] = gathered
		return out
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return res.([][]int32), nil
}
