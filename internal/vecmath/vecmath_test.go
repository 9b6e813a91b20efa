package vecmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquaredL2(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 2}
	assert.Equal(t, float32(9), SquaredL2(a, b))
}

func TestAddScaledInto(t *testing.T) {
	dst := []float32{1, 1}
	AddScaledInto(dst, []float32{2, 3}, 2)
	assert.Equal(t, []float32{5, 7}, dst)
}

func TestScale(t *testing.T) {
	dst := make([]float32, 3)
	Scale(dst, []float32{1, 2, 3}, 2)
	assert.Equal(t, []float32{2, 4, 6}, dst)
}

func TestProbeDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { Probe() })
}
