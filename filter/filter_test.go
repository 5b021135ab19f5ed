package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/trialfacet/metadata"
)

// bogus lives outside the closed variant set.
type bogus struct{}

func (bogus) Kind() Kind        { return Kind(99) }
func (bogus) Valid() bool       { return true }
func (bogus) CanBeHidden() bool { return false }
func (b bogus) Clone() Filter   { return b }
func (bogus) filter()           {}

func ptr(v metadata.Value) *metadata.Value { return &v }

func TestKind_String(t *testing.T) {
	for _, k := range []Kind{KindSet, KindRange, KindMultiValueSet, KindInverseMultiValueSet, KindMap} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("bitmap")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestNew(t *testing.T) {
	f, err := New(KindRange)
	require.NoError(t, err)
	assert.IsType(t, &RangeFilter{}, f)
	assert.False(t, f.Valid())

	m, err := New(KindMap)
	require.NoError(t, err)
	assert.Equal(t, KindSet, m.(*MapFilter).SubKind())

	_, err = New(Kind(0))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSetFilter(t *testing.T) {
	f := NewSetFilter()
	assert.False(t, f.Valid())
	assert.True(t, f.CanBeHidden())

	f.Widen(metadata.String("A"))
	f.Widen(metadata.String("A"))
	f.Widen(metadata.String("B"))
	f.Widen(metadata.Null())

	assert.True(t, f.Valid())
	assert.True(t, f.IncludeEmpty)
	assert.Equal(t, metadata.Strings("A", "B"), f.Values.Values())
	assert.False(t, f.CanBeHidden())

	c := f.Clone().(*SetFilter)
	c.Values.Add(metadata.String("C"))
	assert.Equal(t, 2, f.Values.Len())

	onlyEmpty := &SetFilter{IncludeEmpty: true}
	assert.True(t, onlyEmpty.Valid())
}

func TestSetFilter_CanBeHidden(t *testing.T) {
	tests := []struct {
		name   string
		values []metadata.Value
		want   bool
	}{
		{"empty", nil, true},
		{"null only", []metadata.Value{metadata.Null()}, true},
		{"sentinel only", metadata.Strings(metadata.EmptySentinel), true},
		{"one real value", metadata.Strings("Placebo"), false},
		{"sentinel and null", []metadata.Value{metadata.Null(), metadata.String(metadata.EmptySentinel)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSetFilter(tt.values...).CanBeHidden())
			assert.Equal(t, tt.want, NewMultiValueSetFilter(tt.values...).CanBeHidden())
		})
	}
}

func TestRangeFilter(t *testing.T) {
	f := NewRangeFilter(nil, nil)
	assert.False(t, f.Valid())
	assert.True(t, f.CanBeHidden())

	for _, v := range []int64{7, 3, 12} {
		f.Widen(metadata.Int(v))
	}
	assert.Equal(t, metadata.Int(3), *f.From)
	assert.Equal(t, metadata.Int(12), *f.To)
	assert.False(t, f.IncludeEmpty)
	assert.False(t, f.CanBeHidden())

	f.Widen(metadata.Null())
	assert.True(t, f.IncludeEmpty)

	empty := &RangeFilter{IncludeEmpty: true}
	assert.True(t, empty.Valid())
	assert.True(t, empty.CanBeHidden())

	from := metadata.Int(1)
	g := NewRangeFilter(&from, nil)
	from = metadata.Int(100)
	assert.Equal(t, metadata.Int(1), *g.From)
}

func TestRangeFilter_Merge(t *testing.T) {
	a := Between(metadata.Int(5), metadata.Int(10))
	b := &RangeFilter{From: ptr(metadata.Int(8)), IncludeEmpty: true}

	got := a.Merge(b)

	assert.Equal(t, metadata.Int(5), *got.From)
	assert.Equal(t, metadata.Int(10), *got.To)
	assert.True(t, got.IncludeEmpty)
	assert.True(t, Equal(got, b.Merge(a)))

	// Absent bounds are the identity of the fold.
	fresh := &RangeFilter{}
	assert.True(t, Equal(a, a.Merge(fresh)))
}

func TestMultiValueSetFilter(t *testing.T) {
	f := NewMultiValueSetFilter()
	f.Widen(metadata.Ints(7))
	f.Widen(metadata.Ints(8, 9))
	assert.False(t, f.IncludeEmpty)

	f.Widen(nil)
	assert.True(t, f.IncludeEmpty)

	f2 := NewMultiValueSetFilter()
	f2.Widen([]metadata.Value{metadata.Null(), metadata.Null()})
	assert.True(t, f2.IncludeEmpty)
	assert.True(t, f2.Values.IsEmpty(), "null elements are never added")

	assert.Equal(t, metadata.Ints(7, 8, 9), f.Values.Values())

	inv := f.Inverse()
	assert.Equal(t, KindInverseMultiValueSet, inv.Kind())
	assert.True(t, Equal(f, inv.Positive()))
}

func TestMerge_KindMismatch(t *testing.T) {
	_, err := Merge(NewSetFilter(), &RangeFilter{})
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = Merge(NewMultiValueSetFilter(), NewInverseMultiValueSetFilter())
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = Merge(bogus{}, bogus{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestMerge_Commutative(t *testing.T) {
	pairs := []struct {
		name string
		a, b Filter
	}{
		{"set", &SetFilter{Values: metadata.NewValueSet(metadata.Int(2))}, &SetFilter{Values: metadata.NewValueSet(metadata.Float(2), metadata.Int(3)), IncludeEmpty: true}},
		{"range", Between(metadata.Int(2), metadata.Int(4)), Between(metadata.Float(2), metadata.Float(9.5))},
		{"multi", NewMultiValueSetFilter(metadata.Ints(1, 2)...), &MultiValueSetFilter{IncludeEmpty: true}},
		{"inverse", NewInverseMultiValueSetFilter(metadata.Strings("N")...), NewInverseMultiValueSetFilter(metadata.Strings("Y")...)},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab, err := Merge(tt.a, tt.b)
			require.NoError(t, err)
			ba, err := Merge(tt.b, tt.a)
			require.NoError(t, err)
			assert.True(t, Equal(ab, ba))
			assert.Equal(t, EncodeFilter(ab), EncodeFilter(ba))
		})
	}
}

func TestMapFilter(t *testing.T) {
	_, err := NewMapFilter(KindMultiValueSet)
	require.ErrorIs(t, err, ErrInvalidSubKind)

	m, err := NewMapFilter(KindRange)
	require.NoError(t, err)
	assert.False(t, m.Valid())
	assert.True(t, m.CanBeHidden())

	require.NoError(t, m.Put(metadata.String("HGB"), Between(metadata.Int(12), metadata.Int(16))))
	require.NoError(t, m.Put(metadata.Null(), &RangeFilter{IncludeEmpty: true}))
	require.NoError(t, m.Put(metadata.String("ALT"), Between(metadata.Int(10), metadata.Int(40))))

	assert.ErrorIs(t, m.Put(metadata.String("AST"), NewSetFilter()), ErrKindMismatch)
	assert.ErrorIs(t, m.Put(metadata.String("AST"), nil), ErrNilFilter)

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "ALT", entries[0].Key.StringValue())
	assert.Equal(t, "HGB", entries[1].Key.StringValue())
	assert.True(t, entries[2].Key.IsNull(), "null keys sort last")

	assert.True(t, m.Valid())
	assert.False(t, m.CanBeHidden())

	require.NoError(t, m.Put(metadata.String("AST"), &RangeFilter{}))
	assert.False(t, m.Valid(), "one invalid sub-filter invalidates the map")

	m.Delete(metadata.String("AST"))
	assert.Equal(t, 3, m.Len())
	assert.True(t, m.Valid())

	sub, ok := m.Get(metadata.String("HGB"))
	require.True(t, ok)
	assert.Equal(t, metadata.Int(16), *sub.(*RangeFilter).To)

	_, ok = m.Get(metadata.String("WBC"))
	assert.False(t, ok)
}

func TestMapFilter_CanBeHidden(t *testing.T) {
	m, err := NewMapFilter(KindSet)
	require.NoError(t, err)

	require.NoError(t, m.Put(metadata.String("EU"), NewSetFilter(metadata.String(metadata.EmptySentinel))))
	require.NoError(t, m.Put(metadata.String("US"), NewSetFilter()))
	assert.True(t, m.CanBeHidden())

	require.NoError(t, m.Put(metadata.String("APAC"), NewSetFilter(metadata.String("S01"))))
	assert.False(t, m.CanBeHidden())
}

func TestMapFilter_Widen(t *testing.T) {
	m, err := NewMapFilter(KindSet)
	require.NoError(t, err)

	m.Widen([]metadata.Entry{
		{Key: metadata.String("EU"), Values: metadata.Strings("S01", "S02")},
		{Key: metadata.String("US"), Values: nil},
	})
	m.Widen([]metadata.Entry{
		{Key: metadata.String("EU"), Values: metadata.Strings("S03")},
	})

	eu, ok := m.Get(metadata.String("EU"))
	require.True(t, ok)
	assert.Equal(t, metadata.Strings("S01", "S02", "S03"), eu.(*SetFilter).Values.Values())
	assert.False(t, eu.(*SetFilter).IncludeEmpty)

	us, ok := m.Get(metadata.String("US"))
	require.True(t, ok)
	assert.True(t, us.(*SetFilter).IncludeEmpty)
	assert.True(t, us.(*SetFilter).Values.IsEmpty())
}

func TestMapFilter_ZeroValue(t *testing.T) {
	var m MapFilter
	assert.Equal(t, KindSet, m.SubKind())

	m.Widen([]metadata.Entry{
		{Key: metadata.String("ALT"), Values: metadata.Ints(3)},
	})
	require.Equal(t, 1, m.Len())

	alt, ok := m.Get(metadata.String("ALT"))
	require.True(t, ok)
	require.NotNil(t, alt)
	assert.Equal(t, metadata.Ints(3), alt.(*SetFilter).Values.Values())
	assert.True(t, m.Valid())

	c := m.Clone().(*MapFilter)
	assert.Equal(t, KindSet, c.SubKind())
	assert.True(t, Equal(&m, c))

	require.NoError(t, m.Put(metadata.String("HGB"), NewSetFilter(metadata.Ints(1)...)))
	assert.ErrorIs(t, m.Put(metadata.String("PLT"), &RangeFilter{}), ErrKindMismatch)
}

func TestMapFilter_Merge(t *testing.T) {
	a, _ := NewMapFilter(KindRange)
	b, _ := NewMapFilter(KindRange)
	require.NoError(t, a.Put(metadata.String("ALT"), Between(metadata.Int(1), metadata.Int(2))))
	require.NoError(t, b.Put(metadata.String("ALT"), Between(metadata.Int(5), metadata.Int(6))))
	require.NoError(t, b.Put(metadata.String("HGB"), Between(metadata.Int(1), metadata.Int(1))))

	got, err := a.Merge(b)
	require.NoError(t, err)

	require.Equal(t, 2, got.Len())
	alt, _ := got.Get(metadata.String("ALT"))
	assert.True(t, Equal(Between(metadata.Int(1), metadata.Int(6)), alt))

	back, err := b.Merge(a)
	require.NoError(t, err)
	assert.True(t, Equal(got, back))

	// Inputs are untouched.
	alt, _ = a.Get(metadata.String("ALT"))
	assert.Equal(t, metadata.Int(2), *alt.(*RangeFilter).To)

	s, _ := NewMapFilter(KindSet)
	_, err = a.Merge(s)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(NewSetFilter(metadata.Int(1)), NewSetFilter(metadata.Int(1))))
	assert.False(t, Equal(NewSetFilter(metadata.Int(1)), NewMultiValueSetFilter(metadata.Int(1))))
	assert.False(t, Equal(&RangeFilter{From: ptr(metadata.Int(1))}, &RangeFilter{To: ptr(metadata.Int(1))}))
	assert.False(t, Equal(bogus{}, bogus{}))
}
