// Package resource bounds the concurrency and I/O throughput of a run: how
// many assignment threads a worker may run at once, and how fast the
// orchestrator's output sink may be written to.
package resource

import (
	"context"
	"io"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for one worker or orchestrator instance.
type Config struct {
	// MaxThreads bounds the number of concurrent assignment threads a
	// worker may run. If 0, defaults to 1.
	MaxThreads int64

	// WriteBytesPerSec throttles output-sink writes. If 0, unlimited.
	WriteBytesPerSec int64
}

// Controller enforces Config's limits.
type Controller struct {
	cfg Config

	threadSem *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController builds a Controller from cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxThreads <= 0 {
		cfg.MaxThreads = 1
	}

	c := &Controller{
		cfg:       cfg,
		threadSem: semaphore.NewWeighted(cfg.MaxThreads),
	}

	if cfg.WriteBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.WriteBytesPerSec), int(cfg.WriteBytesPerSec))
	}

	return c
}

// AcquireThread blocks until a thread slot is free or ctx is done.
func (c *Controller) AcquireThread(ctx context.Context) error {
	return c.threadSem.Acquire(ctx, 1)
}

// ReleaseThread frees a thread slot acquired via AcquireThread.
func (c *Controller) ReleaseThread() {
	c.threadSem.Release(1)
}

// AcquireWrite waits until the configured write-throughput limit allows n
// bytes. A nil Controller or an unconfigured limit is a no-op.
func (c *Controller) AcquireWrite(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, n)
}

// MaxThreads returns the configured thread bound.
func (c *Controller) MaxThreads() int64 {
	return c.cfg.MaxThreads
}

// Writer wraps w so every Write call is paced through AcquireWrite before
// reaching w. A nil Controller returns w unwrapped.
func (c *Controller) Writer(ctx context.Context, w io.Writer) io.Writer {
	if c == nil {
		return w
	}
	return &throttledWriter{ctx: ctx, w: w, ctrl: c}
}

type throttledWriter struct {
	ctx  context.Context
	w    io.Writer
	ctrl *Controller
}

func (t *throttledWriter) Write(p []byte) (int, error) {
	if err := t.ctrl.AcquireWrite(t.ctx, len(p)); err != nil {
		return 0, err
	}
	return t.w.Write(p)
}
