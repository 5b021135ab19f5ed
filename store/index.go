package store

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/trialfacet/metadata"
)

// scalarIndex is the inverted index of one scalar attribute.
//
// Invariant: values is sorted by metadata.Compare and holds no nulls;
// postings[i] belongs to values[i].
type scalarIndex struct {
	byKey    map[string]int
	values   []metadata.Value
	postings []*roaring.Bitmap
	nulls    *roaring.Bitmap
}

func newScalarIndex[E any](entities []E, get func(E) metadata.Value) *scalarIndex {
	idx := &scalarIndex{byKey: make(map[string]int), nulls: roaring.New()}

	tmp := make(map[string]*roaring.Bitmap)
	reps := make(map[string]metadata.Value)
	for i, e := range entities {
		v := get(e)
		if v.IsNull() {
			idx.nulls.Add(uint32(i))
			continue
		}
		k := v.Key()
		bm, ok := tmp[k]
		if !ok {
			bm = roaring.New()
			tmp[k] = bm
			reps[k] = v
		} else {
			reps[k] = metadata.Min(reps[k], v)
		}
		bm.Add(uint32(i))
	}

	idx.values = make([]metadata.Value, 0, len(reps))
	for _, v := range reps {
		idx.values = append(idx.values, v)
	}
	slices.SortFunc(idx.values, metadata.Compare)

	idx.postings = make([]*roaring.Bitmap, len(idx.values))
	for i, v := range idx.values {
		k := v.Key()
		idx.byKey[k] = i
		idx.postings[i] = tmp[k]
	}
	return idx
}

// in returns the union of the postings of every member of set.
func (idx *scalarIndex) in(set metadata.ValueSet) *roaring.Bitmap {
	out := roaring.New()
	for _, v := range set.Values() {
		if v.IsNull() {
			out.Or(idx.nulls)
			continue
		}
		if i, ok := idx.byKey[v.Key()]; ok {
			out.Or(idx.postings[i])
		}
	}
	return out
}

// between returns the union of the postings of every value within the bounds.
// Values of another rank than a bound never qualify.
func (idx *scalarIndex) between(from, to *metadata.Value) *roaring.Bitmap {
	lo, hi := 0, len(idx.values)
	if from != nil {
		lo, _ = slices.BinarySearchFunc(idx.values, *from, metadata.Compare)
	}
	if to != nil {
		hi, _ = slices.BinarySearchFunc(idx.values, *to, metadata.Compare)
		// Include values equal to the upper bound.
		for hi < len(idx.values) && metadata.Compare(idx.values[hi], *to) == 0 {
			hi++
		}
	}

	out := roaring.New()
	for i := lo; i < hi; i++ {
		v := idx.values[i]
		if from != nil && !metadata.Comparable(v, *from) {
			continue
		}
		if to != nil && !metadata.Comparable(v, *to) {
			continue
		}
		out.Or(idx.postings[i])
	}
	return out
}

// notNull returns every position holding a value.
func (idx *scalarIndex) notNull(all *roaring.Bitmap) *roaring.Bitmap {
	return roaring.AndNot(all, idx.nulls)
}

// listIndex is the inverted index of one collection attribute.
type listIndex struct {
	postings map[string]*roaring.Bitmap
	empty    *roaring.Bitmap
}

func newListIndex[E any](entities []E, get func(E) []metadata.Value) *listIndex {
	idx := &listIndex{postings: make(map[string]*roaring.Bitmap), empty: roaring.New()}
	for i, e := range entities {
		seen := false
		for _, v := range get(e) {
			if v.IsNull() {
				continue
			}
			seen = true
			k := v.Key()
			bm, ok := idx.postings[k]
			if !ok {
				bm = roaring.New()
				idx.postings[k] = bm
			}
			bm.Add(uint32(i))
		}
		if !seen {
			idx.empty.Add(uint32(i))
		}
	}
	return idx
}

// anyIn returns every position whose collection shares a value with set.
func (idx *listIndex) anyIn(set metadata.ValueSet) *roaring.Bitmap {
	out := roaring.New()
	for _, v := range set.Values() {
		if bm, ok := idx.postings[v.Key()]; ok {
			out.Or(bm)
		}
	}
	return out
}
