package orchestrator

import (
	"github.com/clusterfabric/kmeans/resource"
	"github.com/clusterfabric/kmeans/telemetry"
)

// Config holds one run's parameters. New starts from spec.md §6's defaults
// and applies options on top of them.
type Config struct {
	// K is the number of clusters. Default 5.
	K int

	// MaxEpochs bounds the epoch loop. Default 100.
	MaxEpochs int

	// InitMethod selects the seeding strategy ("random" or "furthest").
	// Default "random".
	InitMethod string

	// Tolerance is the convergence threshold on |deltaLoss|. Default 1e-4.
	Tolerance float32

	// Workers is the number of ranks (W). Default 1.
	Workers int

	// Threads is the number of assignment threads per worker (T). Default
	// 1.
	Threads int

	// Seed seeds the run's RNG (used by seed.Random/seed.FurthestFirst).
	// Default 1.
	Seed int64

	// Verbose routes per-epoch loss through the logger at Info level.
	Verbose bool

	// TracePath, if set, appends a zstd-compressed JSON line per epoch to
	// this path. Empty disables tracing (default).
	TracePath string

	// WriteBytesPerSec throttles output-sink writes. 0 is unlimited
	// (default).
	WriteBytesPerSec int64

	logger *telemetry.Logger
	ctrl   *resource.Controller
}

// Option configures a Config.
type Option func(*Config)

// WithK sets the number of clusters.
func WithK(k int) Option { return func(c *Config) { c.K = k } }

// WithMaxEpochs sets the epoch bound.
func WithMaxEpochs(n int) Option { return func(c *Config) { c.MaxEpochs = n } }

// WithInitMethod selects the seeding strategy by name.
func WithInitMethod(name string) Option { return func(c *Config) { c.InitMethod = name } }

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float32) Option { return func(c *Config) { c.Tolerance = tol } }

// WithWorkers sets the number of ranks.
func WithWorkers(w int) Option { return func(c *Config) { c.Workers = w } }

// WithThreads sets the number of assignment threads per worker.
func WithThreads(t int) Option { return func(c *Config) { c.Threads = t } }

// WithSeed sets the RNG seed.
func WithSeed(seed int64) Option { return func(c *Config) { c.Seed = seed } }

// WithVerbose enables per-epoch Info-level logging.
func WithVerbose(v bool) Option { return func(c *Config) { c.Verbose = v } }

// WithTracePath enables the zstd-compressed epoch trace log at path.
func WithTracePath(path string) Option { return func(c *Config) { c.TracePath = path } }

// WithWriteBytesPerSec throttles output-sink writes.
func WithWriteBytesPerSec(n int64) Option { return func(c *Config) { c.WriteBytesPerSec = n } }

// WithLogger overrides the default logger (built from Verbose otherwise).
func WithLogger(l *telemetry.Logger) Option { return func(c *Config) { c.logger = l } }

// Controller returns the resource.Controller built by New from this
// Config's Threads/WriteBytesPerSec settings, for callers that need to
// throttle their own output sink (cmd/kmeans wraps its output file with
// Controller().Writer before handing it to dataio.WritePoints).
func (c Config) Controller() *resource.Controller { return c.ctrl }

// New builds a Config from spec.md §6's defaults with opts applied on top.
// An option that sets a field to its zero value keeps that zero; it is not
// replaced by the default.
func New(opts ...Option) Config {
	c := Config{
		K:          5,
		MaxEpochs:  100,
		InitMethod: "random",
		Tolerance:  1e-4,
		Workers:    1,
		Threads:    1,
		Seed:       1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = telemetry.NewLogger(c.Verbose)
	}
	c.ctrl = resource.NewController(resource.Config{
		MaxThreads:       int64(c.Threads),
		WriteBytesPerSec: c.WriteBytesPerSec,
	})
	return c
}
