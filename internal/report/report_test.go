package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/ppiankov/wrangle/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	lines := Table([][]string{
		{"Canonical", "Count"},
		{"Street", "12"},
		{"大通り", "3"},
	})
	require.Len(t, lines, 4)

	assert.Equal(t, "| Canonical | Count |", lines[0])
	assert.Equal(t, "| --------- | ----- |", lines[1])
	assert.Equal(t, "| Street    | 12    |", lines[2])

	width := runewidth.StringWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, runewidth.StringWidth(l), l)
	}
}

func TestTable_RaggedAndEmpty(t *testing.T) {
	assert.Nil(t, Table(nil))

	lines := Table([][]string{{"a", "b"}, {"c"}})
	require.Len(t, lines, 3)
	assert.Equal(t, "| c   |     |", lines[2])
}

func TestRenderCounters(t *testing.T) {
	c := normalize.NewCounters()
	c.StreetFixes["Street"] = 3
	c.StreetFixes["Avenue"] = 5
	c.FieldFixes["Starbucks"] = 1

	var buf bytes.Buffer
	require.NoError(t, RenderCounters(&buf, c, 1))

	out := buf.String()
	assert.Contains(t, out, "## Rewrites (9 total)")
	assert.Contains(t, out, "| Avenue    | 5     |")
	assert.NotContains(t, out, "Street    ", "limit keeps only the top row")
	assert.Contains(t, out, "### Expected street words\n\n_none_")
	assert.Contains(t, out, "Starbucks")
}

func TestRenderFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderFiles(&buf, []FileSummary{
		{Input: "a.osm", Output: "a.osm.json", Records: 3, Elements: 5, Skipped: 2},
		{Input: "b.osm", Err: errors.New("malformed")},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[4], "a.osm.json")
	assert.Contains(t, lines[4], "| ok ")
	assert.Contains(t, lines[5], "malformed")
}
