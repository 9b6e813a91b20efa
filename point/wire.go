package point

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WireSize is the number of bytes a single Point occupies on the wire: a
// fixed MaxDim x 4 bytes regardless of a run's effective dimension. Unused
// tail coordinates are zero-filled, so two runs with different D never need
// different message-layer framing.
const WireSize = MaxDim * 4

// EncodeTo writes p's fixed-width, little-endian binary32 wire form to w.
// p.Dim() must be <= MaxDim; coordinates beyond p.Dim() are written as
// zero.
func (p Point) EncodeTo(w io.Writer) error {
	if p.Dim() > MaxDim {
		return fmt.Errorf("point: dimension %d exceeds wire MaxDim %d", p.Dim(), MaxDim)
	}
	var buf [WireSize]byte
	for i := 0; i < MaxDim; i++ {
		var c float32
		if i < p.Dim() {
			c = p.Coords[i]
		}
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(c))
	}
	_, err := w.Write(buf[:])
	return err
}

// Decode reads a fixed-width wire Point from r and returns its first d
// coordinates (the rest of the MaxDim slots are padding and are discarded).
func Decode(r io.Reader, d int) (Point, error) {
	if d > MaxDim {
		return Point{}, fmt.Errorf("point: dimension %d exceeds wire MaxDim %d", d, MaxDim)
	}
	var buf [WireSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Point{}, err
	}
	out := Zero(d)
	for i := 0; i < d; i++ {
		bits := binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
		out.Coords[i] = math.Float32frombits(bits)
	}
	return out, nil
}
