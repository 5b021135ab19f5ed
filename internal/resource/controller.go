package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrBudgetExceeded is returned when admitting a fold would exceed the
// in-flight entity budget.
var ErrBudgetExceeded = errors.New("in-flight entity budget exceeded")

// Config holds admission limits. Zero values disable the respective limit.
type Config struct {
	// MaxInFlightEntities caps the number of entities being folded at once
	// across all concurrent requests.
	MaxInFlightEntities int64

	// MaxConcurrentFolds caps the number of widening folds running at once.
	MaxConcurrentFolds int64

	// RequestsPerSecond limits the request rate with a token bucket.
	RequestsPerSecond float64

	// Burst is the token bucket size. Defaults to 1 when a rate is set.
	Burst int
}

// Enabled reports whether any limit is configured.
func (c Config) Enabled() bool {
	return c.MaxInFlightEntities > 0 || c.MaxConcurrentFolds > 0 || c.RequestsPerSecond > 0
}

// Controller enforces admission limits. A nil *Controller admits everything.
type Controller struct {
	cfg Config

	// Entities
	entitySem *semaphore.Weighted // nil if unlimited
	inFlight  atomic.Int64

	// Folds
	foldSem *semaphore.Weighted // nil if unlimited

	// Requests
	limiter *rate.Limiter
}

// NewController creates a controller, or returns nil if cfg sets no limit.
func NewController(cfg Config) *Controller {
	if !cfg.Enabled() {
		return nil
	}

	c := &Controller{cfg: cfg}

	if cfg.MaxInFlightEntities > 0 {
		c.entitySem = semaphore.NewWeighted(cfg.MaxInFlightEntities)
	}

	if cfg.MaxConcurrentFolds > 0 {
		c.foldSem = semaphore.NewWeighted(cfg.MaxConcurrentFolds)
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c
}

// Wait blocks until the request rate allows one more request.
func (c *Controller) Wait(ctx context.Context) error {
	if c == nil || c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed now, consuming a token if so.
func (c *Controller) Allow() bool {
	if c == nil || c.limiter == nil {
		return true
	}
	return c.limiter.AllowN(time.Now(), 1)
}

// AcquireEntities reserves budget for n entities.
// Non-blocking: returns ErrBudgetExceeded when the budget is exhausted.
func (c *Controller) AcquireEntities(n int64) error {
	if c == nil || n <= 0 {
		return nil
	}

	if c.entitySem != nil {
		if !c.entitySem.TryAcquire(n) {
			return ErrBudgetExceeded
		}
	}

	c.inFlight.Add(n)
	return nil
}

// ReleaseEntities returns budget reserved by AcquireEntities.
func (c *Controller) ReleaseEntities(n int64) {
	if c == nil || n <= 0 {
		return
	}

	if c.entitySem != nil {
		c.entitySem.Release(n)
	}
	c.inFlight.Add(-n)
}

// InFlight returns the number of entities currently reserved.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireFold reserves a fold slot, blocking while all slots are busy.
func (c *Controller) AcquireFold(ctx context.Context) error {
	if c == nil || c.foldSem == nil {
		return nil
	}
	return c.foldSem.Acquire(ctx, 1)
}

// TryAcquireFold reserves a fold slot without blocking.
func (c *Controller) TryAcquireFold() bool {
	if c == nil || c.foldSem == nil {
		return true
	}
	return c.foldSem.TryAcquire(1)
}

// ReleaseFold releases a fold slot.
func (c *Controller) ReleaseFold() {
	if c == nil || c.foldSem == nil {
		return
	}
	c.foldSem.Release(1)
}

// Admit reserves a fold slot and budget for n entities. The returned
// function releases both and must be called exactly once.
func (c *Controller) Admit(ctx context.Context, n int64) (func(), error) {
	if c == nil {
		return func() {}, nil
	}
	if err := c.AcquireFold(ctx); err != nil {
		return nil, err
	}
	if err := c.AcquireEntities(n); err != nil {
		c.ReleaseFold()
		return nil, err
	}
	return func() {
		c.ReleaseEntities(n)
		c.ReleaseFold()
	}, nil
}
