package normalize

import (
	"sort"
)

// Counters tally the rewrites a Normalizer applied. They only feed the
// end-of-run report.
type Counters struct {
	StreetFixes    map[string]int `json:"street_fixes" yaml:"street_fixes"`       // canonical token -> substitutions
	StreetExpected map[string]int `json:"street_expected" yaml:"street_expected"` // allow-listed token -> occurrences
	FieldFixes     map[string]int `json:"field_fixes" yaml:"field_fixes"`         // venue name or corrected value -> fixes
}

// NewCounters returns empty counters
func NewCounters() Counters {
	return Counters{
		StreetFixes:    make(map[string]int),
		StreetExpected: make(map[string]int),
		FieldFixes:     make(map[string]int),
	}
}

// Merge adds every tally of other into c
func (c Counters) Merge(other Counters) {
	mergeInto(c.StreetFixes, other.StreetFixes)
	mergeInto(c.StreetExpected, other.StreetExpected)
	mergeInto(c.FieldFixes, other.FieldFixes)
}

// Total returns the number of applied rewrites (expected-word hits excluded)
func (c Counters) Total() int {
	total := 0
	for _, n := range c.StreetFixes {
		total += n
	}
	for _, n := range c.FieldFixes {
		total += n
	}
	return total
}

func (c Counters) clone() Counters {
	out := NewCounters()
	out.Merge(c)
	return out
}

func mergeInto(dst, src map[string]int) {
	for k, n := range src {
		dst[k] += n
	}
}

// Tally is one counter entry
type Tally struct {
	Key   string
	Count int
}

// Sorted returns the entries of a tally map by descending count, then key
func Sorted(m map[string]int) []Tally {
	out := make([]Tally, 0, len(m))
	for k, n := range m {
		out = append(out, Tally{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
