// Package membership provides a roaring-bitmap-backed view of "which points
// belong to which cluster", derived from (never the source of truth for)
// the dense per-point membership slice every worker and the coordinator
// actually operate on.
package membership

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Sets holds one bitmap of point indices per cluster. It is a read
// projection: build it from a dense membership slice with FromDense, never
// mutate it directly during an epoch.
type Sets struct {
	byCluster []*roaring.Bitmap
}

// NewSets returns an empty Sets for k clusters.
func NewSets(k int) *Sets {
	s := &Sets{byCluster: make([]*roaring.Bitmap, k)}
	for i := range s.byCluster {
		s.byCluster[i] = roaring.New()
	}
	return s
}

// FromDense builds a Sets from a dense membership slice (membership[i] is
// the cluster index of point i), with k clusters.
func FromDense(membership []int32, k int) *Sets {
	s := NewSets(k)
	for i, m := range membership {
		s.byCluster[m].Add(uint32(i))
	}
	return s
}

// Add records that point id belongs to cluster k.
func (s *Sets) Add(k int, id uint32) {
	s.byCluster[k].Add(id)
}

// Cardinality returns the number of points currently recorded in cluster k.
func (s *Sets) Cardinality(k int) uint64 {
	return s.byCluster[k].GetCardinality()
}

// IsEmpty reports whether cluster k has no recorded points. An empty
// cluster across a full epoch is the trigger for the commit no-op policy
// in package cluster, not an error here.
func (s *Sets) IsEmpty(k int) bool {
	return s.byCluster[k].IsEmpty()
}

// Iterator returns an ascending iterator over the point indices in cluster
// k.
func (s *Sets) Iterator(k int) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.byCluster[k].Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Merge folds other's per-cluster sets into s (union), for combining
// per-worker Sets into a coordinator-global one at finalize.
func (s *Sets) Merge(other *Sets) {
	for k := range s.byCluster {
		s.byCluster[k].Or(other.byCluster[k])
	}
}

// ToDense materializes a dense membership slice of length n from s. Every
// point index in [0,n) must appear in exactly one cluster's set, or the
// result is undefined at that index (left as -1).
func (s *Sets) ToDense(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = -1
	}
	for k := range s.byCluster {
		for id := range s.Iterator(k) {
			out[id] = int32(k)
		}
	}
	return out
}
