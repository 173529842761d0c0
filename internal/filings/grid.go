// Package filings pulls (company, shares) holdings out of the HTML tables of
// N-Q filings and enriches them with listed-company reference data.
package filings

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const maxColspan = 64

// Grid is a rectangular table of cell text. Empty string means a missing value.
type Grid [][]string

// Width returns the number of columns
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// ParseTables concatenates every <table> of the document row-wise. Rows are
// padded to the widest row; rows with no text at all are dropped. Nested
// tables contribute their own rows once.
func ParseTables(r io.Reader) (Grid, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var rows [][]string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if !tr.Closest("table").IsSelection(table) {
				return
			}
			var row []string
			tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				text := collapse(nodeText(cell.Nodes[0]))
				for i := 0; i < colspan(cell); i++ {
					row = append(row, text)
				}
			})
			if !blank(row) {
				rows = append(rows, row)
			}
		})
	})

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	grid := make(Grid, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		grid[i] = padded
	}
	return grid, nil
}

func colspan(cell *goquery.Selection) int {
	v, ok := cell.Attr("colspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxColspan)
}

// nodeText returns the visible text below n. <br> separates words.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				buf.WriteByte(' ')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "div") {
			buf.WriteByte(' ')
		}
	}
	walk(n)
	return buf.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
