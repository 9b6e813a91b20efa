// Package seed implements the two initial-centroid strategies the
// coordinator picks from before the first epoch: uniform random sampling
// without replacement, and farthest-first traversal.
package seed

import (
	"fmt"
	"math/rand"

	"github.com/clusterfabric/kmeans/point"
)

// Method selects K initial centroids from a dataset of N points.
// Implementations must be deterministic given rng.
type Method interface {
	Seed(points []point.Point, k int, rng *rand.Rand) ([]point.Point, error)
}

// Random samples K distinct point indices uniformly from [0,N) without
// replacement and copies them as the initial centroids.
type Random struct{}

// Seed implements Method.
func (Random) Seed(points []point.Point, k int, rng *rand.Rand) ([]point.Point, error) {
	n := len(points)
	if n < k {
		return nil, fmt.Errorf("seed: N=%d < K=%d", n, k)
	}
	perm := rng.Perm(n)
	out := make([]point.Point, k)
	for i := 0; i < k; i++ {
		out[i] = points[perm[i]].Clone()
	}
	return out, nil
}

// FurthestFirst implements farthest-first traversal: the first centroid is
// picked uniformly at random, then each subsequent centroid is the point
// whose minimum distance to the already-chosen centroids is maximal. Ties
// are broken by the lowest point index, which is what makes the sequence
// reproducible across runs and worker counts given the same rng draw for
// the first pick.
type FurthestFirst struct{}

// Seed implements Method.
func (FurthestFirst) Seed(points []point.Point, k int, rng *rand.Rand) ([]point.Point, error) {
	n := len(points)
	if n < k {
		return nil, fmt.Errorf("seed: N=%d < K=%d", n, k)
	}

	chosen := make([]point.Point, 0, k)
	chosenIdx := rng.Intn(n)
	chosen = append(chosen, points[chosenIdx].Clone())

	minDist := make([]float32, n)
	for i, p := range points {
		minDist[i] = point.Distance(p, chosen[0])
	}
	minDist[chosenIdx] = -1 // excluded from further consideration

	for len(chosen) < k {
		best := -1
		var bestDist float32 = -1
		for i := 0; i < n; i++ {
			if minDist[i] < 0 {
				continue
			}
			if minDist[i] > bestDist {
				bestDist = minDist[i]
				best = i
			}
		}
		chosen = append(chosen, points[best].Clone())
		minDist[best] = -1
		for i := 0; i < n; i++ {
			if minDist[i] < 0 {
				continue
			}
			d := point.Distance(points[i], chosen[len(chosen)-1])
			if d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return chosen, nil
}

// ByName resolves a configuration string ("random" or "furthest") to a
// Method.
func ByName(name string) (Method, error) {
	switch name {
	case "", "random":
		return Random{}, nil
	case "furthest":
		return FurthestFirst{}, nil
	default:
		return nil, fmt.Errorf("seed: unknown init method %q", name)
	}
}
