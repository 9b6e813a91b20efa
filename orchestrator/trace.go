package orchestrator

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// traceWriter appends one zstd-compressed JSON line per epoch to a file,
// for offline inspection of a run's convergence behavior. It is
// diagnostic only: the engine never reads a trace back.
type traceWriter struct {
	file       *os.File
	compressor *zstd.Encoder
	buf        *bufio.Writer
}

type traceLine struct {
	Epoch      int       `json:"epoch"`
	GlobalLoss float32   `json:"global_loss"`
	Weights    []float32 `json:"weights"`
}

func newTraceWriter(path string) (*traceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: create %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("trace: new encoder: %w", err)
	}
	return &traceWriter{
		file:       f,
		compressor: enc,
		buf:        bufio.NewWriter(enc),
	}, nil
}

// WriteEpoch appends one trace line for the given epoch's outcome.
func (t *traceWriter) WriteEpoch(epoch int, globalLoss float32, weights []float32) error {
	line := traceLine{Epoch: epoch, GlobalLoss: globalLoss, Weights: weights}

	enc, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("trace: marshal epoch %d: %w", epoch, err)
	}
	enc = append(enc, '\n')
	if _, err := t.buf.Write(enc); err != nil {
		return fmt.Errorf("trace: write epoch %d: %w", epoch, err)
	}
	return nil
}

// Close flushes and closes the trace file.
func (t *traceWriter) Close() error {
	if err := t.buf.Flush(); err != nil {
		_ = t.compressor.Close()
		_ = t.file.Close()
		return err
	}
	if err := t.compressor.Close(); err != nil {
		_ = t.file.Close()
		return err
	}
	return t.file.Close()
}
