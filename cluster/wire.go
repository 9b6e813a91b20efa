package cluster

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/clusterfabric/kmeans/point"
)

// WireSize is the number of bytes a single Cluster occupies on the wire:
// two Point-wires (centroid, working sum) followed by a 4-byte binary32
// weight, no trailing padding.
const WireSize = point.WireSize*2 + 4

// EncodeTo writes c's wire form to w: centroid, then working sum, then
// weight, each a fixed-width field per the layout above.
func (c Cluster) EncodeTo(w io.Writer) error {
	if err := c.Centroid.EncodeTo(w); err != nil {
		return fmt.Errorf("cluster: encode centroid: %w", err)
	}
	if err := c.WorkingSum.EncodeTo(w); err != nil {
		return fmt.Errorf("cluster: encode working sum: %w", err)
	}
	var weightBuf [4]byte
	binary.LittleEndian.PutUint32(weightBuf[:], math.Float32bits(c.Weight))
	if _, err := w.Write(weightBuf[:]); err != nil {
		return fmt.Errorf("cluster: encode weight: %w", err)
	}
	return nil
}

// Decode reads a wire Cluster with dimension d from r.
func Decode(r io.Reader, d int) (Cluster, error) {
	centroid, err := point.Decode(r, d)
	if err != nil {
		return Cluster{}, fmt.Errorf("cluster: decode centroid: %w", err)
	}
	workingSum, err := point.Decode(r, d)
	if err != nil {
		return Cluster{}, fmt.Errorf("cluster: decode working sum: %w", err)
	}
	var weightBuf [4]byte
	if _, err := io.ReadFull(r, weightBuf[:]); err != nil {
		return Cluster{}, fmt.Errorf("cluster: decode weight: %w", err)
	}
	weight := math.Float32frombits(binary.LittleEndian.Uint32(weightBuf[:]))
	return Cluster{Centroid: centroid, WorkingSum: workingSum, Weight: weight}, nil
}
