// Package orchestrator drives the run state machine (see package doc in
// orchestrator.go): seeding, partitioning, the epoch cycle, finalize.
package orchestrator
