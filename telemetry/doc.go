// Package telemetry provides the run's structured logger (see package doc
// in logger.go).
package telemetry
