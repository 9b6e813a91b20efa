// Package point implements the d-dimensional value type shared by dataset
// rows, centroids and working sums, plus its fixed-width wire encoding.
//
// # Wire format
//
// A Point is encoded as MaxDim x 4 bytes, little-endian IEEE-754 binary32,
// in coordinate order, regardless of the run's effective dimension; unused
// tail slots are zero. This keeps message framing independent of D.
package point
