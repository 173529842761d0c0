package osm

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/ppiankov/wrangle/internal/model"
)

// ErrMalformed is returned when the underlying XML cannot be parsed
var ErrMalformed = errors.New("malformed osm document")

// streamXPath selects every map element at any depth, so change files that
// wrap elements in create/modify blocks are read too. Relations are selected
// only so they are released once skipped.
const streamXPath = "//node|//way|//relation"

// Walker reads an extract one map element at a time. Only the element being
// shaped is held in memory.
type Walker struct {
	sp       *xmlquery.StreamParser
	shaper   *Shaper
	err      error
	doc      *xmlquery.Node
	root     *xmlquery.Node
	elements int
	skipped  int
}

// NewWalker creates a walker over r
func NewWalker(r io.Reader, shaper *Shaper) (*Walker, error) {
	sp, err := xmlquery.CreateStreamParser(r, streamXPath)
	if err != nil {
		return nil, fmt.Errorf("create stream parser: %w", err)
	}
	return &Walker{sp: sp, shaper: shaper}, nil
}

// Next returns the next shaped record in document order, or io.EOF once the
// document is exhausted. Any parse failure is final, including content after
// the document element.
func (w *Walker) Next() (*model.Record, error) {
	if w.err != nil {
		return nil, w.err
	}

	for {
		n, err := w.sp.Read()
		if errors.Is(err, io.EOF) {
			if err := w.checkEnd(); err != nil {
				return nil, w.fail(err)
			}
			w.err = io.EOF
			return nil, io.EOF
		}
		if err != nil {
			return nil, w.fail(err)
		}
		if err := w.track(n); err != nil {
			return nil, w.fail(err)
		}

		w.elements++
		rec := w.shaper.Shape(FromXML(n))
		if rec == nil {
			w.skipped++
			continue
		}
		return rec, nil
	}
}

func (w *Walker) fail(err error) error {
	w.err = fmt.Errorf("%w: %v", ErrMalformed, err)
	return w.err
}

// track remembers the document element of the first streamed element and
// rejects elements living under any other top-level element
func (w *Walker) track(n *xmlquery.Node) error {
	top := n
	for top.Parent != nil && top.Parent.Type != xmlquery.DocumentNode {
		top = top.Parent
	}
	if w.root == nil {
		w.root, w.doc = top, top.Parent
		return nil
	}
	if top != w.root {
		return fmt.Errorf("second document element <%s>", top.Data)
	}
	return nil
}

// checkEnd verifies nothing but whitespace, comments and processing
// instructions surround the document element
func (w *Walker) checkEnd() error {
	if w.doc == nil {
		return nil
	}
	for c := w.doc.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			if c != w.root {
				return fmt.Errorf("second document element <%s>", c.Data)
			}
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(c.Data) != "" {
				return errors.New("text outside the document element")
			}
		}
	}
	return nil
}

// All yields records until the document ends. A parse failure is yielded
// once as a nil record with the error, then iteration stops.
func (w *Walker) All() iter.Seq2[*model.Record, error] {
	return func(yield func(*model.Record, error) bool) {
		for {
			rec, err := w.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Elements returns how many map elements were read
func (w *Walker) Elements() int {
	return w.elements
}

// Skipped returns how many read elements were not node or way
func (w *Walker) Skipped() int {
	return w.skipped
}

// FromXML detaches a streamed element into a SourceNode
func FromXML(n *xmlquery.Node) *SourceNode {
	src := &SourceNode{
		Kind:  n.Data,
		Attrs: attrMap(n.Attr),
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case ElementTag:
			attrs := attrMap(c.Attr)
			key, hasKey := attrs[AttrKey]
			src.Tags = append(src.Tags, Tag{
				Key:    key,
				Value:  attrs[AttrValue],
				HasKey: hasKey,
			})
		case ElementNd:
			if ref, ok := attrMap(c.Attr)[AttrRef]; ok {
				src.Refs = append(src.Refs, ref)
			}
		}
	}

	return src
}

func attrMap(attrs []xmlquery.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}
