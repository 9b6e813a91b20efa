// Package dataio reads and writes the CSV formats spec.md §6 defines, and
// generates an in-memory synthetic dataset when no input file is given.
package dataio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/clusterfabric/kmeans/point"
)

// ErrDimensionMismatch indicates two rows of an input CSV have a different
// number of numeric columns.
var ErrDimensionMismatch = fmt.Errorf("dataio: row dimension mismatch")

// ReadPoints parses one point per line from r: D comma-separated numeric
// columns, an optional trailing non-numeric column ignored, trailing blank
// lines ignored. All rows must share the same dimension D; a mismatch is
// fatal per spec.md §7.
func ReadPoints(r io.Reader) ([]point.Point, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []point.Point
	dim := -1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataio: read row: %w", err)
		}
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue // trailing blank line
		}

		row, err := parseRow(record)
		if err != nil {
			return nil, err
		}
		if dim == -1 {
			dim = len(row)
		} else if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, len(out), len(row), dim)
		}
		out = append(out, point.New(row))
	}

	return out, nil
}

// parseRow parses a CSV record into numeric coordinates, dropping exactly
// one trailing column if it fails to parse as a float (the spec's
// "optional trailing column (ignored)").
func parseRow(record []string) ([]float32, error) {
	n := len(record)
	row := make([]float32, 0, n)
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 32)
		if err != nil {
			if i == n-1 {
				break // trailing non-numeric column, ignored
			}
			return nil, fmt.Errorf("dataio: column %d: %w", i, err)
		}
		row = append(row, float32(v))
	}
	if len(row) == 0 {
		return nil, fmt.Errorf("dataio: row has no numeric columns")
	}
	return row, nil
}

// WritePoints writes one line per point to w: the D coordinates followed
// by its membership in [0,K). len(points) must equal len(membership).
func WritePoints(w io.Writer, points []point.Point, membership []int32) error {
	if len(points) != len(membership) {
		return fmt.Errorf("dataio: %d points but %d memberships", len(points), len(membership))
	}

	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	record := make([]string, 0, 9)
	for i, p := range points {
		record = record[:0]
		for _, c := range p.Coords {
			record = append(record, strconv.FormatFloat(float64(c), 'g', -1, 32))
		}
		record = append(record, strconv.Itoa(int(membership[i])))
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("dataio: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("dataio: flush csv: %w", err)
	}
	return bw.Flush()
}
