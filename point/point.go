// Package point implements the d-dimensional numeric value that flows
// through the rest of the engine: dataset rows, centroids and working sums
// are all Points.
package point

import (
	"fmt"
	"math"

	"github.com/clusterfabric/kmeans/internal/vecmath"
)

// MaxDim is the default compact wire layout's dimension ceiling (D_max in
// the aggregation protocol). Runs with a larger dimension still work; they
// just don't fit the fixed-width wire layout in wire.go.
const MaxDim = 8

// Point is an ordered tuple of D floating-point coordinates. D is fixed for
// a run and must be identical across every Point involved in it. Points are
// immutable once constructed; every operation below returns a new Point.
type Point struct {
	Coords []float32
}

// New returns a Point wrapping coords directly (no copy). Callers that don't
// own coords exclusively should clone first.
func New(coords []float32) Point {
	return Point{Coords: coords}
}

// Zero returns a D-dimensional Point with every coordinate set to 0.
func Zero(d int) Point {
	return Point{Coords: make([]float32, d)}
}

// Dim returns the dimensionality of p.
func (p Point) Dim() int {
	return len(p.Coords)
}

// Clone returns a deep copy of p.
func (p Point) Clone() Point {
	c := make([]float32, len(p.Coords))
	copy(c, p.Coords)
	return Point{Coords: c}
}

// Add returns the element-wise sum of p and q.
// p and q must have equal dimension.
func Add(p, q Point) Point {
	out := Zero(len(p.Coords))
	vecmath.Add(out.Coords, p.Coords, q.Coords)
	return out
}

// Scale returns p with every coordinate multiplied by s.
func Scale(p Point, s float32) Point {
	out := Zero(len(p.Coords))
	vecmath.Scale(out.Coords, p.Coords, s)
	return out
}

// SqDistance returns the sum of squared coordinate differences between p
// and q, summed in natural index order (the numeric contract every
// accelerated path must stay within one ULP of).
func SqDistance(p, q Point) float32 {
	return vecmath.SquaredL2(p.Coords, q.Coords)
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float32 {
	return float32(math.Sqrt(float64(SqDistance(p, q))))
}

// ValidateDim reports an error if p's dimension is not exactly d.
func ValidateDim(p Point, d int) error {
	if len(p.Coords) != d {
		return fmt.Errorf("point: dimension mismatch: expected %d, got %d", d, len(p.Coords))
	}
	return nil
}

// HasNaN reports whether any coordinate of p is NaN. A NaN coordinate is an
// input bug (§7 of the protocol spec): callers should fail the run, not try
// to route around it.
func (p Point) HasNaN() bool {
	for _, c := range p.Coords {
		if c != c { // NaN != NaN
			return true
		}
	}
	return false
}
