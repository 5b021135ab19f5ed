package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of entities each worker widens before combining.
const DefaultChunkSize = 4096

// WidenOptions configures the widening fold.
type WidenOptions struct {
	// Parallelism caps the number of concurrent chunk workers.
	// Zero means runtime.GOMAXPROCS(0); one forces a sequential fold.
	Parallelism int

	// ChunkSize is the number of entities per chunk. Zero means DefaultChunkSize.
	ChunkSize int
}

// Widen rebuilds a filter set from scratch by folding every entity's field
// values into fresh empty filters. The result lists, per field, the options
// that remain available in entities.
//
// Entities are partitioned into chunks, each chunk widens a private
// accumulator, and the accumulators are combined pairwise with Merge. Widening
// and merging are associative and commutative, so the result does not depend
// on chunking or entity order. ctx cancellation abandons the fold.
func (s *Schema[E]) Widen(ctx context.Context, entities []E, optFns ...func(o *WidenOptions)) (*FilterSet[E], error) {
	opts := WidenOptions{
		Parallelism: runtime.GOMAXPROCS(0),
		ChunkSize:   DefaultChunkSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	if opts.Parallelism == 1 || len(entities) <= opts.ChunkSize {
		acc := s.New()
		if err := widenChunk(ctx, acc, entities); err != nil {
			return nil, err
		}
		return acc, nil
	}

	numChunks := (len(entities) + opts.ChunkSize - 1) / opts.ChunkSize
	partials := make([]*FilterSet[E], numChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)

	for c := range numChunks {
		start := c * opts.ChunkSize
		end := min(start+opts.ChunkSize, len(entities))
		g.Go(func() error {
			acc := s.New()
			if err := widenChunk(gctx, acc, entities[start:end]); err != nil {
				return err
			}
			partials[c] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return combine(partials)
}

// WidenFrom is Schema.Widen for the schema of fs. fs itself is only a template
// and is left untouched.
func (fs *FilterSet[E]) WidenFrom(ctx context.Context, entities []E, optFns ...func(o *WidenOptions)) (*FilterSet[E], error) {
	return fs.schema.Widen(ctx, entities, optFns...)
}

// cancelCheckInterval bounds how many entities are widened between ctx checks.
const cancelCheckInterval = 1024

func widenChunk[E any](ctx context.Context, acc *FilterSet[E], entities []E) error {
	for i, e := range entities {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		acc.Widen(e)
	}
	return nil
}

// combine merges partial accumulators pairwise until one remains.
func combine[E any](partials []*FilterSet[E]) (*FilterSet[E], error) {
	for len(partials) > 1 {
		next := make([]*FilterSet[E], 0, (len(partials)+1)/2)
		for i := 0; i < len(partials); i += 2 {
			if i+1 == len(partials) {
				next = append(next, partials[i])
				continue
			}
			merged, err := partials[i].Merge(partials[i+1])
			if err != nil {
				return nil, err
			}
			next = append(next, merged)
		}
		partials = next
	}
	return partials[0], nil
}
