package trialfacet

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/internal/cache"
	"github.com/hupe1980/trialfacet/internal/resource"
	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
	"github.com/hupe1980/trialfacet/store"
)

// Facets serves filter queries and available-filter computations for one
// entity type over an in-memory dataset.
//
// Facets is safe for concurrent use.
type Facets[E any] struct {
	mu     sync.RWMutex
	schema *filter.Schema[E]
	coll   *store.Collection[E]

	opts      options
	hideRules filter.HideRules[E]
	admission *resource.Controller // nil when unlimited

	// results caches available filters by rendered predicate. nil when disabled.
	results *cache.LRU[string, *Availability[E]]
}

// Request selects entities of one type.
type Request[E any] struct {
	// Filters is the client selection. Nil selects every entity.
	Filters *filter.FilterSet[E]

	// IDs optionally restricts the selection to entities with these ids.
	IDs []metadata.Value
}

// Result is the outcome of a query.
type Result[E any] struct {
	RequestID string
	Predicate query.Predicate[E]
	Entities  []E

	// MatchedCount is the number of selected entities. It annotates the
	// result and never feeds back into the filters.
	MatchedCount int
}

// Availability is the outcome of an available-filters computation.
type Availability[E any] struct {
	RequestID string

	// Filters holds, per field, the options still present in the selection.
	Filters *filter.FilterSet[E]

	// Hideable lists the fields of Filters that carry no discriminating information.
	Hideable []string

	MatchedCount int
}

// New creates a service over entities, described by schema.
func New[E any](schema *filter.Schema[E], entities []E, optFns ...Option) (*Facets[E], error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidOption)
	}
	o := applyOptions(optFns)

	var rules filter.HideRules[E]
	if o.hideRules != nil {
		var ok bool
		if rules, ok = o.hideRules.(filter.HideRules[E]); !ok {
			return nil, fmt.Errorf("%w: hide rules of type %T do not fit entity %s", ErrInvalidOption, o.hideRules, schema.Entity())
		}
	}

	coll, err := store.New(entities)
	o.logger.WithEntity(schema.Entity()).LogLoad(context.Background(), len(entities), err)
	if err != nil {
		return nil, err
	}

	return &Facets[E]{
		schema:    schema,
		coll:      coll,
		opts:      o,
		hideRules: rules,
		admission: resource.NewController(o.admission),
		results:   cache.NewLRU[string, *Availability[E]](o.resultCacheSize),
	}, nil
}

// Schema returns the schema the service was built with.
func (f *Facets[E]) Schema() *filter.Schema[E] { return f.schema }

// Len returns the number of entities served.
func (f *Facets[E]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.coll == nil {
		return 0
	}
	return f.coll.Len()
}

// Query compiles the request filters and returns the matching entities.
func (f *Facets[E]) Query(ctx context.Context, req Request[E]) (*Result[E], error) {
	start := time.Now()
	id := uuid.NewString()
	log := f.opts.logger.WithRequestID(id).WithEntity(f.schema.Entity())

	res, err := f.query(ctx, id, req)
	matched := 0
	if res != nil {
		matched = res.MatchedCount
	}
	took := time.Since(start)
	log.LogQuery(ctx, activeFields(req.Filters), matched, took, err)
	f.opts.metricsCollector.RecordQuery(f.schema.Entity(), matched, took, err)
	return res, err
}

// Available computes the filter options that remain once the request filters
// are applied: the selection is compiled, evaluated, and folded back into a
// fresh filter set.
func (f *Facets[E]) Available(ctx context.Context, req Request[E]) (*Availability[E], error) {
	start := time.Now()
	id := uuid.NewString()
	log := f.opts.logger.WithRequestID(id).WithEntity(f.schema.Entity())

	av, err := f.available(ctx, id, req)
	matched, hideable := 0, 0
	if av != nil {
		matched, hideable = av.MatchedCount, len(av.Hideable)
	}
	took := time.Since(start)
	log.LogAvailable(ctx, matched, hideable, took, err)
	f.opts.metricsCollector.RecordAvailable(f.schema.Entity(), matched, took, err)
	return av, err
}

// QueryPayload is Query for a filter set in transport form.
func (f *Facets[E]) QueryPayload(ctx context.Context, p filter.Payload, ids []metadata.Value) (*Result[E], error) {
	fs, err := f.decode(p)
	if err != nil {
		return nil, err
	}
	return f.Query(ctx, Request[E]{Filters: fs, IDs: ids})
}

// AvailablePayload is Available for a filter set in transport form.
func (f *Facets[E]) AvailablePayload(ctx context.Context, p filter.Payload, ids []metadata.Value) (*Availability[E], error) {
	fs, err := f.decode(p)
	if err != nil {
		return nil, err
	}
	return f.Available(ctx, Request[E]{Filters: fs, IDs: ids})
}

func (f *Facets[E]) decode(p filter.Payload) (*filter.FilterSet[E], error) {
	if p.Entity != "" && p.Entity != f.schema.Entity() {
		return nil, &ErrEntityMismatch{Expected: f.schema.Entity(), Actual: p.Entity}
	}
	fs, err := f.schema.FromPayload(p)
	if err != nil {
		return nil, translateError(err)
	}
	return fs, nil
}

func (f *Facets[E]) query(ctx context.Context, id string, req Request[E]) (*Result[E], error) {
	coll, pred, err := f.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	selected, err := coll.Select(pred)
	if err != nil {
		return nil, translateError(err)
	}
	return &Result[E]{
		RequestID:    id,
		Predicate:    pred,
		Entities:     selected,
		MatchedCount: len(selected),
	}, nil
}

func (f *Facets[E]) available(ctx context.Context, id string, req Request[E]) (*Availability[E], error) {
	coll, pred, err := f.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	key := pred.String()
	if cached, ok := f.results.Get(key); ok {
		return &Availability[E]{
			RequestID:    id,
			Filters:      cached.Filters.Clone(),
			Hideable:     slices.Clone(cached.Hideable),
			MatchedCount: cached.MatchedCount,
		}, nil
	}

	selected, err := coll.Select(pred)
	if err != nil {
		return nil, translateError(err)
	}

	release, err := f.admission.Admit(ctx, int64(len(selected)))
	if err != nil {
		return nil, translateError(err)
	}
	defer release()

	start := time.Now()
	widened, err := f.schema.Widen(ctx, selected, f.opts.widenOptions)
	if err != nil {
		return nil, err
	}
	f.opts.metricsCollector.RecordWiden(f.schema.Entity(), len(selected), time.Since(start))

	av := &Availability[E]{
		RequestID:    id,
		Filters:      widened,
		Hideable:     widened.HideableFieldNames(f.hideRules),
		MatchedCount: len(selected),
	}
	if f.results != nil {
		f.results.Set(key, &Availability[E]{
			Filters:      widened.Clone(),
			Hideable:     slices.Clone(av.Hideable),
			MatchedCount: av.MatchedCount,
		})
	}
	return av, nil
}

// prepare checks the service state and compiles the request.
func (f *Facets[E]) prepare(ctx context.Context, req Request[E]) (*store.Collection[E], query.Predicate[E], error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f.mu.RLock()
	coll := f.coll
	f.mu.RUnlock()
	if coll == nil {
		return nil, nil, ErrClosed
	}
	if err := f.admission.Wait(ctx); err != nil {
		return nil, nil, err
	}

	fs := req.Filters
	if fs == nil {
		fs = f.schema.New()
	}
	if fs.Schema() != f.schema {
		return nil, nil, &ErrEntityMismatch{Expected: f.schema.Entity(), Actual: fs.Schema().Entity(), cause: filter.ErrSchemaMismatch}
	}

	pred, err := fs.Compile(req.IDs)
	if err != nil {
		return nil, nil, translateError(err)
	}
	return coll, pred, nil
}

func activeFields[E any](fs *filter.FilterSet[E]) int {
	if fs == nil {
		return 0
	}
	return fs.CountValid()
}
