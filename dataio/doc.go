// Package dataio provides the CSV input/output contract and the
// synthetic dataset generator (see package doc in csv.go).
package dataio
