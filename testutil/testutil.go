package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Shuffled returns a shuffled copy of in.
func Shuffled[E any](r *RNG, in []E) []E {
	out := slices.Clone(in)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// s=1.0 gives standard Zipf, s=1.5 gives a heavy tail.
// Categorical trial data (arms, terms, sites) is skewed like this.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// SparsePresence reports, per position, whether a field is present.
// missingRate is the probability that a field is missing (0.3 = 30% missing).
func (r *RNG) SparsePresence(n int, missingRate float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	present := make([]bool, n)
	for i := range n {
		present[i] = r.rand.Float64() >= missingRate
	}

	return present
}

// Subject is a synthetic trial participant covering every attribute shape:
// nullable scalars, collections, a value-map and a multimap.
type Subject struct {
	ID       int64
	Arm      *string
	Age      *float64
	Enrolled *time.Time
	Visits   []int64
	Flags    []string
	Labs     map[string]float64
	Sites    map[string][]string
}

var (
	arms     = []string{"Placebo", "Low Dose", "High Dose", metadata.EmptySentinel}
	flags    = []string{"Y", "N", "Unknown"}
	labNames = []string{"ALT", "AST", "HGB", "WBC"}
	regions  = []string{"EU", "US", "APAC"}
	siteIDs  = []string{"S01", "S02", "S03", "S04", "S05"}
)

// Subjects generates n subjects with ids 1..n. Roughly 20% of every nullable
// field is missing, and categorical fields follow a Zipf distribution.
func (r *RNG) Subjects(n int) []Subject {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Subject, n)
	for i := range n {
		s := Subject{ID: int64(i + 1)}
		if r.rand.Float64() >= 0.2 {
			arm := arms[r.zipfLocked(len(arms), 1.2)]
			s.Arm = &arm
		}
		if r.rand.Float64() >= 0.2 {
			age := float64(18 + r.rand.Intn(60))
			s.Age = &age
		}
		if r.rand.Float64() >= 0.2 {
			t := base.AddDate(0, 0, r.rand.Intn(365))
			s.Enrolled = &t
		}
		for v := range 10 {
			if r.rand.Float64() < 0.3 {
				s.Visits = append(s.Visits, int64(v+1))
			}
		}
		for range r.rand.Intn(3) {
			s.Flags = append(s.Flags, flags[r.zipfLocked(len(flags), 1.0)])
		}
		if r.rand.Float64() >= 0.2 {
			s.Labs = make(map[string]float64)
			for _, name := range labNames {
				if r.rand.Float64() < 0.6 {
					s.Labs[name] = math.Round(r.rand.Float64()*1000) / 10
				}
			}
		}
		if r.rand.Float64() >= 0.2 {
			s.Sites = make(map[string][]string)
			region := regions[r.rand.Intn(len(regions))]
			for range 1 + r.rand.Intn(2) {
				s.Sites[region] = append(s.Sites[region], siteIDs[r.zipfLocked(len(siteIDs), 1.0)])
			}
		}
		out[i] = s
	}
	return out
}

// Attribute projections over Subject.
var (
	SubjectID = query.Scalar[Subject]{Name: "id", Get: func(s Subject) metadata.Value {
		return metadata.Int(s.ID)
	}}
	SubjectArm = query.Scalar[Subject]{Name: "arm", Get: func(s Subject) metadata.Value {
		if s.Arm == nil {
			return metadata.Null()
		}
		return metadata.String(*s.Arm)
	}}
	SubjectAge = query.Scalar[Subject]{Name: "age", Get: func(s Subject) metadata.Value {
		if s.Age == nil {
			return metadata.Null()
		}
		return metadata.Float(*s.Age)
	}}
	SubjectEnrolled = query.Scalar[Subject]{Name: "enrolled", Get: func(s Subject) metadata.Value {
		if s.Enrolled == nil {
			return metadata.Null()
		}
		return metadata.Time(*s.Enrolled)
	}}
	SubjectVisits = query.Collection[Subject]{Name: "visits", Get: func(s Subject) []metadata.Value {
		return metadata.Ints(s.Visits...)
	}}
	SubjectFlags = query.Collection[Subject]{Name: "flags", Get: func(s Subject) []metadata.Value {
		return metadata.Strings(s.Flags...)
	}}
	SubjectLabs = query.Mapping[Subject]{Name: "labs", Get: func(s Subject) []metadata.Entry {
		entries := make([]metadata.Entry, 0, len(s.Labs))
		for k, v := range s.Labs {
			entries = append(entries, metadata.Entry{Key: metadata.String(k), Values: []metadata.Value{metadata.Float(v)}})
		}
		return sortEntries(entries)
	}}
	SubjectSites = query.Mapping[Subject]{Name: "sites", Multi: true, Get: func(s Subject) []metadata.Entry {
		entries := make([]metadata.Entry, 0, len(s.Sites))
		for k, v := range s.Sites {
			entries = append(entries, metadata.Entry{Key: metadata.String(k), Values: metadata.Strings(v...)})
		}
		return sortEntries(entries)
	}}
)

func sortEntries(entries []metadata.Entry) []metadata.Entry {
	slices.SortFunc(entries, func(a, b metadata.Entry) int { return metadata.Compare(a.Key, b.Key) })
	return entries
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// MatchingIDs evaluates pred by brute force and returns the positions of the
// matching entities. It is the ground truth for engine tests.
func MatchingIDs[E any](entities []E, pred query.Predicate[E]) []uint32 {
	var out []uint32
	for i, e := range entities {
		if pred.Match(e) {
			out = append(out, uint32(i))
		}
	}
	return out
}
