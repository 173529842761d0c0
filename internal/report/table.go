// Package report renders end-of-run summaries as aligned Markdown tables.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table aligns rows into Markdown table lines. The first row is the header;
// a separator line is inserted after it. Widths are display widths, so
// street names with wide runes still line up.
func Table(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	widths := make([]int, colCount)
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	lines := make([]string, 0, len(rows)+1)
	for r, row := range rows {
		lines = append(lines, line(row, widths))
		if r == 0 {
			sep := make([]string, colCount)
			for i, w := range widths {
				sep[i] = strings.Repeat("-", w)
			}
			lines = append(lines, line(sep, widths))
		}
	}
	return lines
}

func line(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for j, w := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}
		sb.WriteString(" ")
		sb.WriteString(content)
		if pad := w - runewidth.StringWidth(content); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(" |")
	}
	return sb.String()
}
