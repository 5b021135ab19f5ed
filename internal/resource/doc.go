// Package resource implements admission control for available-filter
// computations.
//
// Three limits are enforced, each optional:
//
//   - Entities: a budget of entities being folded at once (non-blocking, fail-fast)
//   - Folds: the number of concurrent widening folds (blocking semaphore)
//   - Requests: a token bucket over incoming requests
//
// # Entity Budget
//
// Folding holds one clone of every selected entity's widened values per
// worker chunk. Large selections are the expensive ones, so the budget is
// reserved up front with a weighted semaphore and released once the fold
// returns. A request that does not fit is rejected immediately rather than
// queued; callers decide about retries.
//
// # Usage
//
//	c := resource.NewController(resource.Config{
//	    MaxInFlightEntities: 1_000_000,
//	    MaxConcurrentFolds:  4,
//	    RequestsPerSecond:   50,
//	})
//	if err := c.Wait(ctx); err != nil {
//	    return err
//	}
//	release, err := c.Admit(ctx, int64(len(selected)))
//	if err != nil {
//	    return err
//	}
//	defer release()
//
// A nil *Controller admits everything.
package resource
