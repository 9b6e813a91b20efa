// Package worker implements the per-rank half of the coordinator protocol
// (see package doc in worker.go): local chunk, thread pool, assignment and
// accumulation.
package worker
