// Package membership provides a roaring-bitmap-backed per-cluster view of
// point assignment, derived from the dense membership slice that is the
// protocol's actual ground truth (spec Invariant C).
package membership
