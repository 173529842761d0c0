package osm

// Element names in an OSM XML extract
const (
	ElementNode = "node"
	ElementWay  = "way"
	ElementTag  = "tag"
	ElementNd   = "nd"
)

// Attribute names read from elements
const (
	AttrID      = "id"
	AttrVisible = "visible"
	AttrLat     = "lat"
	AttrLon     = "lon"
	AttrKey     = "k"
	AttrValue   = "v"
	AttrRef     = "ref"
)

// ProvenanceAttrs are the edit history attributes copied into "created"
var ProvenanceAttrs = []string{"version", "changeset", "timestamp", "user", "uid"}

// Tag is one k/v child of an element
type Tag struct {
	Key    string
	Value  string
	HasKey bool
}

// SourceNode is one streamed element, detached from the document tree
type SourceNode struct {
	Kind  string            // Element name
	Attrs map[string]string // Element attributes
	Tags  []Tag             // tag children in document order
	Refs  []string          // nd ref attributes in document order
}

// Attr returns an attribute and whether it was present
func (n *SourceNode) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}
