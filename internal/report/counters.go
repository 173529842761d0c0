package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/wrangle/internal/normalize"
)

// FileSummary is one processed input of an OSM run
type FileSummary struct {
	Input    string
	Output   string
	Records  int
	Elements int
	Skipped  int
	Err      error
}

// RenderCounters writes the rewrite tallies of a run. limit caps the rows
// per section; zero or less means all.
func RenderCounters(w io.Writer, c normalize.Counters, limit int) error {
	sections := []struct {
		title  string
		header string
		tally  map[string]int
	}{
		{"Street suffix fixes", "Canonical", c.StreetFixes},
		{"Expected street words", "Word", c.StreetExpected},
		{"Field fixes", "Value", c.FieldFixes},
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Rewrites (%d total)\n", c.Total())
	for _, s := range sections {
		fmt.Fprintf(&sb, "\n### %s\n\n", s.title)
		entries := normalize.Sorted(s.tally)
		if len(entries) == 0 {
			sb.WriteString("_none_\n")
			continue
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		rows := [][]string{{s.header, "Count"}}
		for _, e := range entries {
			rows = append(rows, []string{e.Key, strconv.Itoa(e.Count)})
		}
		for _, l := range Table(rows) {
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderFiles writes one row per processed input
func RenderFiles(w io.Writer, files []FileSummary) error {
	rows := [][]string{{"Input", "Output", "Records", "Elements", "Skipped", "Status"}}
	for _, f := range files {
		status := "ok"
		if f.Err != nil {
			status = f.Err.Error()
		}
		rows = append(rows, []string{
			f.Input,
			f.Output,
			strconv.Itoa(f.Records),
			strconv.Itoa(f.Elements),
			strconv.Itoa(f.Skipped),
			status,
		})
	}

	var sb strings.Builder
	sb.WriteString("## Files\n\n")
	for _, l := range Table(rows) {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
