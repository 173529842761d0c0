package filings

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/wrangle/internal/reference"
)

var (
	// ErrEmptyGrid is returned when a filing has no table rows
	ErrEmptyGrid = errors.New("no table rows")
	// ErrNoCompanyColumn is returned when no column starts with a known company word
	ErrNoCompanyColumn = errors.New("no company column")
	// ErrNoSharesColumn is returned when no column holds integers
	ErrNoSharesColumn = errors.New("no shares column")
)

var shareRe = regexp.MustCompile(`^[+-]?(\d+|\d{1,3}(,\d{3})+)$`)

// Row is one extracted (company, shares) pair
type Row struct {
	Company string
	Shares  int64
}

// ParseShares parses an integer cell. Thousands separators are accepted;
// decimals and free text are not.
func ParseShares(cell string) (int64, bool) {
	cell = strings.TrimSpace(cell)
	if !shareRe.MatchString(cell) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(cell, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompanyColumn picks the column whose cells most often start with a word
// in firstWords. The leftmost column wins ties. ok is false when no cell
// in any column matches.
func CompanyColumn(g Grid, firstWords map[string]bool) (int, bool) {
	best, bestCount := -1, 0
	for col := 0; col < g.Width(); col++ {
		count := 0
		for _, row := range g {
			if firstWords[reference.FirstWord(row[col])] {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = col, count
		}
	}
	return best, best >= 0
}

// FilterCompanyRows keeps the rows whose col cell starts with a word in firstWords
func FilterCompanyRows(g Grid, col int, firstWords map[string]bool) Grid {
	var out Grid
	for _, row := range g {
		if firstWords[reference.FirstWord(row[col])] {
			out = append(out, row)
		}
	}
	return out
}

// SharesColumn picks, among columns with at least one integer cell, the one
// with the fewest empty cells. The leftmost column wins ties.
func SharesColumn(g Grid) (int, bool) {
	best, bestMissing := -1, 0
	for col := 0; col < g.Width(); col++ {
		numeric := false
		missing := 0
		for _, row := range g {
			if row[col] == "" {
				missing++
				continue
			}
			if _, ok := ParseShares(row[col]); ok {
				numeric = true
			}
		}
		if !numeric {
			continue
		}
		if best < 0 || missing < bestMissing {
			best, bestMissing = col, missing
		}
	}
	return best, best >= 0
}

// FilterShareRows keeps the rows whose col cell parses as an integer
func FilterShareRows(g Grid, col int) Grid {
	var out Grid
	for _, row := range g {
		if _, ok := ParseShares(row[col]); ok {
			out = append(out, row)
		}
	}
	return out
}

// Extract runs the column heuristics over g and returns the surviving rows
func Extract(g Grid, firstWords map[string]bool) ([]Row, error) {
	if len(g) == 0 || g.Width() == 0 {
		return nil, ErrEmptyGrid
	}

	companyCol, ok := CompanyColumn(g, firstWords)
	if !ok {
		return nil, ErrNoCompanyColumn
	}
	g = FilterCompanyRows(g, companyCol, firstWords)

	sharesCol, ok := SharesColumn(g)
	if !ok {
		return nil, ErrNoSharesColumn
	}
	g = FilterShareRows(g, sharesCol)

	rows := make([]Row, 0, len(g))
	for _, r := range g {
		shares, _ := ParseShares(r[sharesCol])
		rows = append(rows, Row{Company: r[companyCol], Shares: shares})
	}
	return rows, nil
}
