package orchestrator

import "errors"

// Fatal conditions per spec.md §7. Each terminates the run with a
// non-zero exit code and no partial output.
var (
	ErrInvalidK       = errors.New("orchestrator: K must be >= 1")
	ErrTooFewPoints   = errors.New("orchestrator: fewer points than clusters (N < K)")
	ErrInvalidWorkers = errors.New("orchestrator: worker count must be > 0")
	ErrEmptyDataset   = errors.New("orchestrator: dataset is empty")
	ErrFabricInit     = errors.New("orchestrator: fabric initialization failed")
	ErrDatasetLoad    = errors.New("orchestrator: dataset load failed")
)
