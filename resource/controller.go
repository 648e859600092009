// Package resource bounds the work a process accepts: concurrent queries,
// query rate and read throughput.
package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrRejected is returned when a query cannot be admitted without waiting.
var ErrRejected = errors.New("resource: query rejected")

// Config holds resource limits.
type Config struct {
	// MaxConcurrentQueries is the maximum number of queries in flight.
	// If 0, concurrency is unlimited.
	MaxConcurrentQueries int64

	// QueriesPerSecond is the sustained query rate.
	// If 0, unlimited.
	QueriesPerSecond float64

	// Burst is the number of queries allowed above the sustained rate.
	// If 0, defaults to max(1, QueriesPerSecond).
	Burst int

	// IOLimitBytesPerSec is the maximum read throughput for dataset loading.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller admits queries and paces reads.
type Controller struct {
	cfg Config

	// Queries
	querySem     *semaphore.Weighted // nil if unlimited
	queryLimiter *rate.Limiter       // nil if unlimited
	inFlight     atomic.Int64
	admitted     atomic.Int64
	rejected     atomic.Int64

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentQueries > 0 {
		c.querySem = semaphore.NewWeighted(cfg.MaxConcurrentQueries)
	}

	if cfg.QueriesPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(1, int(cfg.QueriesPerSecond))
		}
		c.queryLimiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), burst)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Acquire admits a query, waiting for a rate token and a concurrency slot.
// The returned release func must be called once the query is done.
func (c *Controller) Acquire(ctx context.Context) (func(), error) {
	if c == nil {
		return func() {}, nil
	}

	if c.queryLimiter != nil {
		if err := c.queryLimiter.Wait(ctx); err != nil {
			c.rejected.Add(1)
			return nil, err
		}
	}
	if c.querySem != nil {
		if err := c.querySem.Acquire(ctx, 1); err != nil {
			c.rejected.Add(1)
			return nil, err
		}
	}

	return c.admit(), nil
}

// TryAcquire admits a query without blocking. It returns ErrRejected if the
// rate or concurrency limit is reached.
func (c *Controller) TryAcquire() (func(), error) {
	if c == nil {
		return func() {}, nil
	}

	if c.queryLimiter != nil && !c.queryLimiter.Allow() {
		c.rejected.Add(1)
		return nil, ErrRejected
	}
	if c.querySem != nil && !c.querySem.TryAcquire(1) {
		c.rejected.Add(1)
		return nil, ErrRejected
	}

	return c.admit(), nil
}

func (c *Controller) admit() func() {
	c.inFlight.Add(1)
	c.admitted.Add(1)

	var once atomic.Bool
	return func() {
		if !once.CompareAndSwap(false, true) {
			return
		}
		c.inFlight.Add(-1)
		if c.querySem != nil {
			c.querySem.Release(1)
		}
	}
}

// InFlight returns the number of admitted queries not yet released.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// Admitted returns the total number of admitted queries.
func (c *Controller) Admitted() int64 {
	if c == nil {
		return 0
	}
	return c.admitted.Load()
}

// Rejected returns the total number of rejected queries.
func (c *Controller) Rejected() int64 {
	if c == nil {
		return 0
	}
	return c.rejected.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}

// ioChunk caps a single read so a wait never exceeds the limiter burst.
func (c *Controller) ioChunk(n int) int {
	if c == nil || c.ioLimiter == nil {
		return n
	}
	return min(n, c.ioLimiter.Burst())
}
