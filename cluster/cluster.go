// Package cluster implements the aggregation entity the whole protocol is
// built on: a committed centroid, a working sum accumulated since the last
// commit, and the fuse monoid that lets thread, worker and coordinator
// layers combine partial sums in any order.
package cluster

import "github.com/clusterfabric/kmeans/point"

// Cluster holds a committed centroid plus the working sum and weight
// accumulated toward the next commit.
//
// Fuse is commutative and associative over (WorkingSum, Weight); Centroid
// is untouched by Fuse and only replaced by Commit. This split is the
// invariant the rest of the package relies on: threads, workers and the
// coordinator can Fuse in any order and get the same result, while only
// the coordinator ever calls Commit.
type Cluster struct {
	Centroid   point.Point
	WorkingSum point.Point
	Weight     float32
}

// New returns an identity Cluster (zero working sum, zero weight) with the
// given centroid.
func New(centroid point.Point) Cluster {
	return Cluster{
		Centroid:   centroid,
		WorkingSum: point.Zero(centroid.Dim()),
		Weight:     0,
	}
}

// Identity returns the zero Cluster for a D-dimensional run: the fuse
// monoid's identity element.
func Identity(d int) Cluster {
	return Cluster{
		Centroid:   point.Zero(d),
		WorkingSum: point.Zero(d),
		Weight:     0,
	}
}

// AddPoint accumulates p into the working sum with weight w (1 for a plain
// count).
func (c *Cluster) AddPoint(p point.Point, w float32) {
	if c.WorkingSum.Coords == nil {
		c.WorkingSum = point.Zero(p.Dim())
	}
	c.WorkingSum = point.Add(c.WorkingSum, point.Scale(p, w))
	c.Weight += w
}

// Fuse returns a+b's combination: working sums and weights add, centroids
// are left at a's (fuse never touches centroid; callers fuse clusters that
// share a centroid, so either side's value would do).
func Fuse(a, b Cluster) Cluster {
	return Cluster{
		Centroid:   a.Centroid,
		WorkingSum: point.Add(a.WorkingSum, b.WorkingSum),
		Weight:     a.Weight + b.Weight,
	}
}

// FuseInto fuses src into dst in place, mutating dst's WorkingSum/Weight.
// dst.Centroid is left untouched.
func FuseInto(dst *Cluster, src Cluster) {
	dst.WorkingSum = point.Add(dst.WorkingSum, src.WorkingSum)
	dst.Weight += src.Weight
}

// Commit replaces Centroid with the mean of WorkingSum, then resets
// WorkingSum and Weight to zero. If Weight is zero, Commit is a no-op: the
// empty-cluster policy is "leave the centroid unchanged", not re-seed.
func (c *Cluster) Commit() {
	if c.Weight == 0 {
		return
	}
	c.Centroid = point.Scale(c.WorkingSum, 1/c.Weight)
	c.WorkingSum = point.Zero(c.Centroid.Dim())
	c.Weight = 0
}

// DistanceTo returns the distance from c's committed centroid to p.
func (c Cluster) DistanceTo(p point.Point) float32 {
	return point.Distance(c.Centroid, p)
}

// Reset replaces Centroid with c and zeroes the working sum and weight.
func (c *Cluster) Reset(centroid point.Point) {
	c.Centroid = centroid
	c.WorkingSum = point.Zero(centroid.Dim())
	c.Weight = 0
}

// Argmin returns the index of the closest centroid in clusters to p, with
// ties broken by the lowest index. clusters must be non-empty.
func Argmin(clusters []Cluster, p point.Point) int {
	best := 0
	bestDist := clusters[0].DistanceTo(p)
	for k := 1; k < len(clusters); k++ {
		d := clusters[k].DistanceTo(p)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best
}
