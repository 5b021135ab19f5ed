package store

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/trialfacet/query"
)

var (
	// ErrUnknownNode is returned when a predicate node has no index plan.
	ErrUnknownNode = errors.New("store: unknown predicate node")

	// ErrTooLarge is returned when a collection exceeds the 32-bit position space.
	ErrTooLarge = errors.New("store: collection exceeds 2^32 entities")
)

// Collection is an in-memory, indexed entity collection that evaluates
// compiled predicates.
//
// Architecture:
//   - Primary storage: the materialized entity slice (position = row id)
//   - Inverted index: attribute name -> value key -> roaring bitmap of positions,
//     built lazily the first time a predicate touches the attribute
//
// Attribute names must identify their accessor: two projections with the same
// name share one index. Derived map projections are named "map[key]".
//
// A Collection is immutable after construction and safe for concurrent use.
type Collection[E any] struct {
	mu sync.RWMutex

	entities []E
	all      *roaring.Bitmap

	scalars map[string]*scalarIndex
	lists   map[string]*listIndex
}

// New creates a collection over entities. The slice is not copied.
func New[E any](entities []E) (*Collection[E], error) {
	if uint64(len(entities)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}
	all := roaring.New()
	all.AddRange(0, uint64(len(entities)))
	return &Collection[E]{
		entities: entities,
		all:      all,
		scalars:  make(map[string]*scalarIndex),
		lists:    make(map[string]*listIndex),
	}, nil
}

// Len returns the number of entities.
func (c *Collection[E]) Len() int { return len(c.entities) }

// Entities returns the underlying entities in position order.
func (c *Collection[E]) Entities() []E { return c.entities }

// At returns the entity at position i.
func (c *Collection[E]) At(i uint32) E { return c.entities[i] }

// Evaluate returns the positions of the entities matching p.
// The returned bitmap is owned by the caller.
func (c *Collection[E]) Evaluate(p query.Predicate[E]) (*roaring.Bitmap, error) {
	return c.eval(p)
}

// Select returns the entities matching p in position order.
func (c *Collection[E]) Select(p query.Predicate[E]) ([]E, error) {
	bm, err := c.eval(p)
	if err != nil {
		return nil, err
	}
	return c.gather(bm), nil
}

// Count returns the number of entities matching p.
func (c *Collection[E]) Count(p query.Predicate[E]) (int, error) {
	bm, err := c.eval(p)
	if err != nil {
		return 0, err
	}
	return int(bm.GetCardinality()), nil
}

// Filter returns a new collection holding the entities matching p.
func (c *Collection[E]) Filter(p query.Predicate[E]) (*Collection[E], error) {
	selected, err := c.Select(p)
	if err != nil {
		return nil, err
	}
	return New(selected)
}

// Scan evaluates p by calling Match on every entity.
// It is slower than Evaluate but needs no index and serves as the reference result.
func (c *Collection[E]) Scan(p query.Predicate[E]) *roaring.Bitmap {
	out := roaring.New()
	for i, e := range c.entities {
		if p.Match(e) {
			out.Add(uint32(i))
		}
	}
	return out
}

func (c *Collection[E]) gather(bm *roaring.Bitmap) []E {
	out := make([]E, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, c.entities[it.Next()])
	}
	return out
}

func (c *Collection[E]) eval(p query.Predicate[E]) (*roaring.Bitmap, error) {
	switch n := p.(type) {
	case *query.And[E]:
		result := c.all.Clone()
		for _, t := range n.Terms {
			bm, err := c.eval(t)
			if err != nil {
				return nil, err
			}
			result.And(bm)
			// Early termination if result is empty
			if result.IsEmpty() {
				return result, nil
			}
		}
		return result, nil
	case *query.Or[E]:
		result := roaring.New()
		for _, t := range n.Terms {
			bm, err := c.eval(t)
			if err != nil {
				return nil, err
			}
			result.Or(bm)
		}
		return result, nil
	case *query.Not[E]:
		bm, err := c.eval(n.Term)
		if err != nil {
			return nil, err
		}
		return roaring.AndNot(c.all, bm), nil
	case *query.None[E]:
		return roaring.New(), nil
	case *query.In[E]:
		return c.scalar(n.Attr).in(n.Values), nil
	case *query.Between[E]:
		return c.scalar(n.Attr).between(n.From, n.To), nil
	case *query.NotNull[E]:
		return c.scalar(n.Attr).notNull(c.all), nil
	case *query.IsNull[E]:
		return c.scalar(n.Attr).nulls.Clone(), nil
	case *query.AnyIn[E]:
		return c.list(n.Attr).anyIn(n.Values), nil
	case *query.NoValues[E]:
		return c.list(n.Attr).empty.Clone(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownNode, p)
	}
}

// scalar returns the index of attr, building it on first use.
func (c *Collection[E]) scalar(attr query.Scalar[E]) *scalarIndex {
	c.mu.RLock()
	idx, ok := c.scalars[attr.Name]
	c.mu.RUnlock()
	if ok {
		return idx
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.scalars[attr.Name]; ok {
		return idx
	}
	idx = newScalarIndex(c.entities, attr.Get)
	c.scalars[attr.Name] = idx
	return idx
}

// list returns the index of attr, building it on first use.
func (c *Collection[E]) list(attr query.Collection[E]) *listIndex {
	c.mu.RLock()
	idx, ok := c.lists[attr.Name]
	c.mu.RUnlock()
	if ok {
		return idx
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.lists[attr.Name]; ok {
		return idx
	}
	idx = newListIndex(c.entities, attr.Get)
	c.lists[attr.Name] = idx
	return idx
}

// Stats describes the indexes built so far.
type Stats struct {
	EntityCount      int    // Total entities
	FieldCount       int    // Number of indexed attributes
	BitmapCount      int    // Total number of posting bitmaps
	TotalCardinality uint64 // Sum of all bitmap cardinalities
	MemoryBytes      uint64 // Serialized size of all bitmaps
}

// Stats returns statistics about the indexes.
func (c *Collection[E]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		EntityCount: len(c.entities),
		FieldCount:  len(c.scalars) + len(c.lists),
	}
	add := func(bm *roaring.Bitmap) {
		stats.BitmapCount++
		stats.TotalCardinality += bm.GetCardinality()
		stats.MemoryBytes += bm.GetSizeInBytes()
	}
	for _, idx := range c.scalars {
		for _, bm := range idx.postings {
			add(bm)
		}
		add(idx.nulls)
	}
	for _, idx := range c.lists {
		for _, bm := range idx.postings {
			add(bm)
		}
		add(idx.empty)
	}
	return stats
}
