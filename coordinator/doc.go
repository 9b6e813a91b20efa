// Package coordinator implements the per-epoch protocol described in
// coordinator.go's package doc: broadcast, reduce, converge, assign,
// gather, commit.
package coordinator
