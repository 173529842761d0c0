package model

import "encoding/json"

// Kind is the element type a record was shaped from
type Kind string

const (
	KindNode Kind = "node" // A single point
	KindWay  Kind = "way"  // An ordered path over other nodes
)

// Provenance is the edit history metadata carried by an element. A nil
// field was absent from the source; an empty one was present but blank.
type Provenance struct {
	Version   *string `json:"version,omitempty"`
	Changeset *string `json:"changeset,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
	User      *string `json:"user,omitempty"`
	UID       *string `json:"uid,omitempty"`
}

// Set stores value under one of the provenance attribute names and reports
// whether the name is known
func (p *Provenance) Set(name, value string) bool {
	switch name {
	case "version":
		p.Version = &value
	case "changeset":
		p.Changeset = &value
	case "timestamp":
		p.Timestamp = &value
	case "user":
		p.User = &value
	case "uid":
		p.UID = &value
	default:
		return false
	}
	return true
}

// Position is a [latitude, longitude] pair
type Position [2]float64

// Lat returns the latitude
func (p Position) Lat() float64 { return p[0] }

// Lon returns the longitude
func (p Position) Lon() float64 { return p[1] }

// Record is one reshaped map element, ready to be stored as a document.
// Tags holds every flat top-level key; the remaining fields are structural
// and always win over a tag with the same name when serialized.
type Record struct {
	Kind     Kind
	ID       *string
	Visible  *string
	Created  *Provenance
	Pos      *Position
	Address  map[string]string
	NodeRefs []string
	Tags     map[string]string
}

// Structural document keys
const (
	FieldType     = "type"
	FieldID       = "id"
	FieldVisible  = "visible"
	FieldCreated  = "created"
	FieldPos      = "pos"
	FieldAddress  = "address"
	FieldNodeRefs = "node_refs"
)

// NewRecord creates an empty record of the given kind
func NewRecord(kind Kind) *Record {
	return &Record{
		Kind: kind,
		Tags: make(map[string]string),
	}
}

// Tag returns a flat field value
func (r *Record) Tag(key string) (string, bool) {
	if r == nil || r.Tags == nil {
		return "", false
	}
	v, ok := r.Tags[key]
	return v, ok
}

// SetTag stores a flat field value, replacing any previous one
func (r *Record) SetTag(key, value string) {
	if r.Tags == nil {
		r.Tags = make(map[string]string)
	}
	r.Tags[key] = value
}

// Document flattens the record into the map that is serialized
func (r *Record) Document() map[string]any {
	doc := make(map[string]any, len(r.Tags)+7)
	for k, v := range r.Tags {
		doc[k] = v
	}

	doc[FieldType] = string(r.Kind)
	if r.ID != nil {
		doc[FieldID] = *r.ID
	} else {
		delete(doc, FieldID)
	}
	if r.Visible != nil {
		doc[FieldVisible] = *r.Visible
	} else {
		delete(doc, FieldVisible)
	}
	if r.Created != nil {
		doc[FieldCreated] = r.Created
	} else {
		delete(doc, FieldCreated)
	}
	if r.Pos != nil {
		doc[FieldPos] = []float64{r.Pos.Lat(), r.Pos.Lon()}
	} else {
		delete(doc, FieldPos)
	}
	if len(r.Address) > 0 {
		doc[FieldAddress] = r.Address
	} else {
		delete(doc, FieldAddress)
	}
	if len(r.NodeRefs) > 0 {
		doc[FieldNodeRefs] = r.NodeRefs
	} else {
		delete(doc, FieldNodeRefs)
	}

	return doc
}

// MarshalJSON implements json.Marshaler
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}
