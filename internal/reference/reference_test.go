package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/wrangle/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyCSV = `"Symbol","Name","LastSale","MarketCap","IPOyear","Sector","industry","Summary Quote",
"AAPL","Apple Inc.","98.12","$543.7B","1980","Technology","Computer Manufacturing","https://www.nasdaq.com/symbol/aapl",
"APLE","Apple Hospitality REIT, Inc.","18.9","$3.3B","n/a","Consumer Services","Real Estate Investment Trusts","https://www.nasdaq.com/symbol/aple",
"GE","General Electric Company","30.1","$276B","n/a","Energy","Consumer Electronics/Appliances","https://www.nasdaq.com/symbol/ge",
"GM","General Motors Company","31.2","$49B","2010","Capital Goods","Auto Manufacturing","https://www.nasdaq.com/symbol/gm",
`

const cikCSV = `CIK,COMPANY_NAME
0000102909,VANGUARD INDEX FUNDS
36405,VANGUARD WORLD FUND
`

func TestReadCompanies(t *testing.T) {
	companies, err := ReadCompanies(strings.NewReader(companyCSV))
	require.NoError(t, err)
	require.Len(t, companies, 4)

	assert.Equal(t, Company{
		Symbol:    "AAPL",
		Name:      "Apple Inc.",
		MarketCap: "$543.7B",
		Sector:    "Technology",
		Industry:  "Computer Manufacturing",
	}, companies[0])
}

func TestReadCompanies_MissingName(t *testing.T) {
	_, err := ReadCompanies(strings.NewReader("Symbol,Sector\nAAPL,Technology\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCompanies(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadCIKs(t *testing.T) {
	ciks, err := ReadCIKs(strings.NewReader(cikCSV))
	require.NoError(t, err)

	assert.Equal(t, "VANGUARD INDEX FUNDS", ciks["102909"])
	assert.Equal(t, "VANGUARD WORLD FUND", ciks["36405"])
	assert.Len(t, ciks, 2)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	companies := filepath.Join(dir, "companylist.csv")
	ciks := filepath.Join(dir, "CIKs.csv")
	require.NoError(t, os.WriteFile(companies, []byte(companyCSV), 0o644))
	require.NoError(t, os.WriteFile(ciks, []byte(cikCSV), 0o644))

	d, err := LoadCompanies(companies)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())

	m, err := LoadCIKs(ciks)
	require.NoError(t, err)
	assert.Len(t, m, 2)

	_, err = LoadCompanies(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestDirectory(t *testing.T) {
	companies, err := ReadCompanies(strings.NewReader(companyCSV))
	require.NoError(t, err)
	d := NewDirectory(companies)

	assert.Equal(t, map[string]bool{"Apple": true, "General": true}, d.FirstWords())
	assert.Equal(t, []string{"General Electric Company", "General Motors Company"}, d.Candidates("General"))
	assert.Empty(t, d.Candidates("Microsoft"))

	c, ok := d.Lookup("General Motors Company")
	require.True(t, ok)
	assert.Equal(t, "GM", c.Symbol)

	_, ok = d.Lookup("general motors company")
	assert.False(t, ok)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "nestle sa", Fold("  NESTLÉ   SA "))
	assert.Equal(t, "cafe", Fold("Café"))
	assert.Equal(t, "", Fold("   "))
}

func TestFirstWord(t *testing.T) {
	assert.Equal(t, "Apple", FirstWord("  Apple Inc."))
	assert.Equal(t, "", FirstWord(""))
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, Score("Apple Inc.", "APPLE INC."))
	assert.Equal(t, 1.0, Score("Motors General", "General Motors"))
	assert.Greater(t, Score("General Motors Co", "General Motors Company"), Score("General Motors Co", "General Electric Company"))
}

func newTestMatcher(t *testing.T, c cache.Cache) *Matcher {
	t.Helper()
	companies, err := ReadCompanies(strings.NewReader(companyCSV))
	require.NoError(t, err)
	return NewMatcher(NewDirectory(companies), c)
}

func TestMatcher_BestMatch(t *testing.T) {
	m := newTestMatcher(t, nil)

	match, ok := m.BestMatch("General Motors Co")
	require.True(t, ok)
	assert.Equal(t, "GM", match.Company.Symbol)
	assert.Equal(t, "Auto Manufacturing", match.Company.Industry)

	match, ok = m.BestMatch("Apple Inc")
	require.True(t, ok)
	assert.Equal(t, "AAPL", match.Company.Symbol)

	_, ok = m.BestMatch("Microsoft Corp")
	assert.False(t, ok, "no candidate shares the first word")

	_, ok = m.BestMatch("   ")
	assert.False(t, ok)
}

func TestMatcher_TieGoesToFirstCandidate(t *testing.T) {
	m := NewMatcher(NewDirectory([]Company{
		{Name: "Acme AB", Symbol: "A1"},
		{Name: "Acme AC", Symbol: "A2"},
	}), nil)

	match, ok := m.BestMatch("Acme AX")
	require.True(t, ok)
	assert.Equal(t, "A1", match.Company.Symbol)
}

func TestMatcher_Memoizes(t *testing.T) {
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	m := newTestMatcher(t, mem)

	first, ok := m.BestMatch("General Electric Co")
	require.True(t, ok)
	second, ok := m.BestMatch("General Electric Co")
	require.True(t, ok)

	assert.Equal(t, first, second)
	calls, hits := m.Stats()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, hits)

	cached, found := mem.Get(cache.CacheKey(cache.KindMatch, "General Electric Co"))
	require.True(t, found)
	assert.Equal(t, "General Electric Company", string(cached))
}

func TestMatcher_StaleMemoIsRecomputed(t *testing.T) {
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, mem.Set(cache.CacheKey(cache.KindMatch, "Apple Inc"), []byte("Apple Computer"), 0))

	m := newTestMatcher(t, mem)
	match, ok := m.BestMatch("Apple Inc")
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", match.Company.Name)
}

func TestBestMatch(t *testing.T) {
	best, score, ok := BestMatch("Genral Motors", []string{"General Electric Company", "General Motors Company"})
	require.True(t, ok)
	assert.Equal(t, "General Motors Company", best)
	assert.Greater(t, score, 0.5)

	_, _, ok = BestMatch("anything", nil)
	assert.False(t, ok)
}
