// Package cluster implements the fuse/commit aggregation monoid that every
// layer of the engine — thread, worker and coordinator — uses to combine
// partial sums, plus its wire encoding for the message layer.
package cluster
