// Package reference loads the listed-company and fund reference tables and
// matches filing company names against them.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrMissingColumn is returned when a reference CSV lacks a required header
	ErrMissingColumn = errors.New("missing column")
)

// Company is one row of the listed-company table
type Company struct {
	Symbol    string
	Name      string
	MarketCap string
	Sector    string
	Industry  string
}

// Directory indexes companies by exact name and by first word
type Directory struct {
	companies []Company
	byName    map[string]int
	byFirst   map[string][]int
}

// NewDirectory builds the indexes. The first row wins for repeated names.
func NewDirectory(companies []Company) *Directory {
	d := &Directory{
		companies: companies,
		byName:    make(map[string]int, len(companies)),
		byFirst:   make(map[string][]int),
	}
	for i, c := range companies {
		if c.Name == "" {
			continue
		}
		if _, ok := d.byName[c.Name]; ok {
			continue
		}
		d.byName[c.Name] = i
		first := FirstWord(c.Name)
		d.byFirst[first] = append(d.byFirst[first], i)
	}
	return d
}

// Len returns the number of indexed companies
func (d *Directory) Len() int {
	return len(d.byName)
}

// FirstWords returns the set of first words of every company name
func (d *Directory) FirstWords() map[string]bool {
	out := make(map[string]bool, len(d.byFirst))
	for w := range d.byFirst {
		out[w] = true
	}
	return out
}

// Candidates returns the names sharing first, in table order
func (d *Directory) Candidates(first string) []string {
	idx := d.byFirst[first]
	names := make([]string, len(idx))
	for i, j := range idx {
		names[i] = d.companies[j].Name
	}
	return names
}

// Lookup returns the company with exactly this name
func (d *Directory) Lookup(name string) (Company, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Company{}, false
	}
	return d.companies[i], true
}

// LoadCompanies reads the listed-company CSV at path
func LoadCompanies(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open companies: %w", err)
	}
	defer func() { _ = f.Close() }()

	companies, err := ReadCompanies(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewDirectory(companies), nil
}

// ReadCompanies parses a CSV with Symbol, Name, MarketCap, Sector and
// industry columns. Header matching ignores case and surrounding space;
// only Name is required.
func ReadCompanies(r io.Reader) ([]Company, error) {
	rows, cols, err := readTable(r, "name")
	if err != nil {
		return nil, err
	}

	companies := make([]Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, Company{
			Symbol:    cell(row, cols, "symbol"),
			Name:      cell(row, cols, "name"),
			MarketCap: cell(row, cols, "marketcap"),
			Sector:    cell(row, cols, "sector"),
			Industry:  cell(row, cols, "industry"),
		})
	}
	return companies, nil
}

// LoadCIKs reads the fund CSV at path into a CIK to fund name map
func LoadCIKs(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ciks: %w", err)
	}
	defer func() { _ = f.Close() }()

	ciks, err := ReadCIKs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ciks, nil
}

// ReadCIKs parses a CSV with CIK and COMPANY_NAME columns. CIKs are keyed
// without leading zeros so "0000102909" and "102909" agree.
func ReadCIKs(r io.Reader) (map[string]string, error) {
	rows, cols, err := readTable(r, "cik", "company_name")
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		cik := NormalizeCIK(cell(row, cols, "cik"))
		if cik == "" {
			continue
		}
		if _, ok := out[cik]; !ok {
			out[cik] = cell(row, cols, "company_name")
		}
	}
	return out, nil
}

// NormalizeCIK trims space and leading zeros
func NormalizeCIK(cik string) string {
	cik = strings.TrimLeft(strings.TrimSpace(cik), "0")
	return cik
}

func readTable(r io.Reader, required ...string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := cols[key]; !ok {
			cols[key] = i
		}
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, cols, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
