package dataio

import (
	"math"
	"math/rand"

	"github.com/clusterfabric/kmeans/point"
)

// Generator produces an in-memory synthetic Gaussian-mixture-like dataset
// for the CLI's -gen-num/-gen-dim mode, used whenever -input is omitted.
//
// This mirrors the original engine's DataGenerator: pick numClusters
// centers uniformly in [0,1)^dim, a random radius per cluster, then scatter
// numPoints/numClusters points inside each cluster's disc by drawing a
// random offset direction and a random fraction of the radius. The result
// is not a literal Gaussian mixture but a bounded-disc mixture with the
// same qualitative shape: dense cores, well-separated clusters, suitable
// for exercising seeding and convergence.
type Generator struct {
	NumPoints   int
	NumClusters int
	Dim         int
	Rng         *rand.Rand
}

// Generate produces NumPoints points, grouped around NumClusters random
// centers. If NumPoints is not evenly divisible by NumClusters, the
// remainder is dropped (the original generator's clusterLoad * numClusters
// truncation).
func (g Generator) Generate() []point.Point {
	rng := g.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	clusterLoad := g.NumPoints / g.NumClusters
	out := make([]point.Point, 0, clusterLoad*g.NumClusters)

	for k := 0; k < g.NumClusters; k++ {
		center := make([]float32, g.Dim)
		for j := range center {
			center[j] = rng.Float32()
		}
		radius := rng.Float32()/5 + 0.1

		for i := 0; i < clusterLoad; i++ {
			p := make([]float32, g.Dim)
			var sqNorm float32
			for j := range p {
				p[j] = rng.Float32() - center[j]
				sqNorm += p[j] * p[j]
			}
			dist := float32(math.Sqrt(float64(sqNorm)))
			if dist == 0 {
				dist = 1e-6
			}
			frac := radius / dist * rng.Float32()
			for j := range p {
				p[j] = center[j] + p[j]*frac
			}
			out = append(out, point.New(p))
		}
	}

	return out
}
