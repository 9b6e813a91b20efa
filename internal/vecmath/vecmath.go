// Package vecmath provides the scalar vector-arithmetic primitives that back
// point.Point. It mirrors the capability-probe shape of a SIMD-accelerated
// numeric layer, but ships only the generic, natural-order code path: every
// build, on every architecture, takes the same path, which is what lets the
// numeric contract (bit-identical summation order) hold without a separate
// one-ULP tolerance proof for an assembly kernel that doesn't exist yet.
package vecmath

import "golang.org/x/sys/cpu"

// Capabilities reports which SIMD extensions are available on the current
// CPU. Nothing in this package branches on it yet; it exists so a future
// assembly backend has the same detection seam this package was built
// against, instead of bolting capability probing on as an afterthought.
type Capabilities struct {
	AVX    bool
	AVX512 bool
	NEON   bool
}

var caps Capabilities

func init() {
	caps = Capabilities{
		AVX:    cpu.X86.HasAVX,
		AVX512: cpu.X86.HasAVX512F,
		NEON:   cpu.ARM64.HasASIMD,
	}
}

// Probe returns the detected CPU capabilities.
func Probe() Capabilities {
	return caps
}

// Add computes dst[i] = a[i] + b[i] for every i, writing into dst.
// a, b and dst must have equal length; callers own that invariant.
func Add(dst, a, b []float32) {
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

// AddScaledInto accumulates b, scaled by w, into dst: dst[i] += b[i] * w.
func AddScaledInto(dst, b []float32, w float32) {
	for i := range b {
		dst[i] += b[i] * w
	}
}

// Scale computes dst[i] = a[i] * s for every i.
func Scale(dst, a []float32, s float32) {
	for i := range a {
		dst[i] = a[i] * s
	}
}

// SquaredL2 returns the sum of squared coordinate differences between a and
// b, accumulated in natural index order (i = 0..len(a)-1). This ordering is
// the numeric contract: any alternative summation tree must stay within one
// ULP of this result.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
