// Package seed implements the coordinator-only initial-centroid strategies:
// Random and FurthestFirst, selected by configuration.
package seed
