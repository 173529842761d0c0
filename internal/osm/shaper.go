// Package osm reshapes OpenStreetMap XML elements into flat documents.
package osm

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/wrangle/internal/model"
	"github.com/ppiankov/wrangle/internal/normalize"
)

// problemChars matches keys that cannot be stored as document fields
var problemChars = regexp.MustCompile(`[=\+/&<>;'"\?%#$@\,\. \t\r\n]`)

const (
	addressPrefix = "addr:"
	addressStreet = "street"
	qualifierSep  = ":"
)

// Shaper converts source elements into records
type Shaper struct {
	norm *normalize.Normalizer
}

// NewShaper creates a shaper that rewrites values through norm
func NewShaper(norm *normalize.Normalizer) *Shaper {
	return &Shaper{norm: norm}
}

// Normalizer returns the normalizer holding this shaper's counters
func (s *Shaper) Normalizer() *normalize.Normalizer {
	return s.norm
}

// Shape converts one element. Elements other than node and way yield nil.
// Unexpected content degrades to missing fields, never to an error.
func (s *Shaper) Shape(n *SourceNode) *model.Record {
	if n == nil {
		return nil
	}

	var kind model.Kind
	switch n.Kind {
	case ElementNode:
		kind = model.KindNode
	case ElementWay:
		kind = model.KindWay
	default:
		return nil
	}

	rec := model.NewRecord(kind)

	if id, ok := n.Attr(AttrID); ok {
		rec.ID = &id
	}
	if visible, ok := n.Attr(AttrVisible); ok {
		rec.Visible = &visible
	}

	rec.Created = shapeProvenance(n)
	rec.Pos = shapePosition(n)

	address := make(map[string]string)
	for _, tag := range n.Tags {
		if !tag.HasKey || IsProblemKey(tag.Key) {
			continue
		}

		if sub, ok := strings.CutPrefix(tag.Key, addressPrefix); ok {
			if strings.Contains(sub, qualifierSep) {
				continue
			}
			value := tag.Value
			if sub == addressStreet {
				value = s.norm.Street(value)
			}
			address[sub] = value
			continue
		}

		value := tag.Value
		if fixed, ok := s.norm.FixValue(value); ok {
			value = fixed
		}
		rec.SetTag(tag.Key, value)
	}

	if len(address) > 0 {
		rec.Address = address
	}

	if kind == model.KindWay && len(n.Refs) > 0 {
		rec.NodeRefs = append([]string(nil), n.Refs...)
	}

	return s.norm.NormalizeRecord(rec)
}

// IsProblemKey reports whether a tag key contains a disallowed character
func IsProblemKey(key string) bool {
	return problemChars.MatchString(key)
}

func shapeProvenance(n *SourceNode) *model.Provenance {
	var p model.Provenance
	found := false
	for _, name := range ProvenanceAttrs {
		if v, ok := n.Attr(name); ok {
			found = p.Set(name, v) || found
		}
	}
	if !found {
		return nil
	}
	return &p
}

func shapePosition(n *SourceNode) *model.Position {
	latRaw, okLat := n.Attr(AttrLat)
	lonRaw, okLon := n.Attr(AttrLon)
	if !okLat || !okLon {
		return nil
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		return nil
	}

	if !finite(lat) || !finite(lon) {
		return nil
	}

	return &model.Position{lat, lon}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
