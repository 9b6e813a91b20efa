// Package fabric provides the cross-worker communication abstraction
// (see package doc in fabric.go) that the coordinator protocol runs on.
package fabric
