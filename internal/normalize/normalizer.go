// Package normalize canonicalizes street names and venue fields using static
// rewrite tables, counting every rewrite it applies.
package normalize

import (
	"strings"

	"github.com/ppiankov/wrangle/internal/model"
)

// Flat fields that drive the amenity rewrite
const (
	FieldName    = "name"
	FieldAmenity = "amenity"
)

// Normalizer applies rewrite tables and owns the counters they produce.
// A Normalizer is not safe for concurrent use; give each worker its own and
// merge the counters afterwards.
type Normalizer struct {
	tables   Tables
	counters Counters
}

// New creates a normalizer over a private copy of the tables
func New(tables Tables) *Normalizer {
	return &Normalizer{
		tables:   tables.clone(),
		counters: NewCounters(),
	}
}

// NewDefault creates a normalizer with the compiled-in tables
func NewDefault() *Normalizer {
	return New(DefaultTables())
}

// Street expands abbreviated tokens of a street name and joins the tokens
// with single spaces
func (n *Normalizer) Street(raw string) string {
	tokens := strings.Fields(raw)
	for i, token := range tokens {
		better := token
		if canonical, ok := n.tables.Street[token]; ok {
			better = canonical
		}
		if better != token {
			n.counters.StreetFixes[better]++
		}
		if n.tables.Expected[token] {
			n.counters.StreetExpected[token]++
		}
		tokens[i] = better
	}
	return strings.Join(tokens, " ")
}

// FixValue corrects a known misspelled value
func (n *Normalizer) FixValue(value string) (string, bool) {
	fixed, ok := n.tables.Fixes[value]
	if !ok {
		return value, false
	}
	n.counters.FieldFixes[fixed]++
	return fixed, true
}

// NormalizeRecord aligns a venue's amenity with its name and corrects
// misspelled flat values. It never fails and tolerates missing fields.
func (n *Normalizer) NormalizeRecord(rec *model.Record) *model.Record {
	if rec == nil {
		return nil
	}

	name, hasName := rec.Tag(FieldName)
	amenity, hasAmenity := rec.Tag(FieldAmenity)
	if hasName && hasAmenity {
		if want, ok := n.tables.Amenity[name]; ok && amenity != want {
			rec.SetTag(FieldAmenity, want)
			n.counters.FieldFixes[name]++
		}
	}

	for key, value := range rec.Tags {
		if fixed, ok := n.FixValue(value); ok {
			rec.Tags[key] = fixed
		}
	}

	return rec
}

// Counters returns a snapshot of the rewrite tallies
func (n *Normalizer) Counters() Counters {
	return n.counters.clone()
}
