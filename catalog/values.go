package catalog

import (
	"slices"
	"time"

	"github.com/hupe1980/trialfacet/metadata"
)

func optString(s *string) metadata.Value {
	if s == nil {
		return metadata.Null()
	}
	return metadata.String(*s)
}

func optInt(i *int64) metadata.Value {
	if i == nil {
		return metadata.Null()
	}
	return metadata.Int(*i)
}

func optFloat(f *float64) metadata.Value {
	if f == nil {
		return metadata.Null()
	}
	return metadata.Float(*f)
}

func optTime(t *time.Time) metadata.Value {
	if t == nil {
		return metadata.Null()
	}
	return metadata.Time(*t)
}

// stringEntries projects a string map in key order.
func stringEntries(m map[string]string) []metadata.Entry {
	entries := make([]metadata.Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, metadata.Entry{Key: metadata.String(k), Values: []metadata.Value{metadata.String(v)}})
	}
	return sortEntries(entries)
}

// floatEntries projects a float map in key order.
func floatEntries(m map[string]float64) []metadata.Entry {
	entries := make([]metadata.Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, metadata.Entry{Key: metadata.String(k), Values: []metadata.Value{metadata.Float(v)}})
	}
	return sortEntries(entries)
}

func sortEntries(entries []metadata.Entry) []metadata.Entry {
	slices.SortFunc(entries, func(a, b metadata.Entry) int { return metadata.Compare(a.Key, b.Key) })
	return entries
}
