package filings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/ppiankov/wrangle/internal/cache"
	"github.com/ppiankov/wrangle/internal/model"
	"github.com/ppiankov/wrangle/internal/pipeline"
	"github.com/ppiankov/wrangle/internal/reference"
)

// ErrUnknownCIK is returned when a filing's CIK is not in the fund table
var ErrUnknownCIK = errors.New("unknown CIK")

// RemoteFetcher downloads filings given by URL
type RemoteFetcher interface {
	FetchWithRetry(ctx context.Context, rawURL string) (*pipeline.FetchResult, error)
}

// Processor turns one filing into holdings
type Processor struct {
	companies  *reference.Directory
	firstWords map[string]bool
	funds      map[string]string
	matcher    *reference.Matcher
	fetcher    RemoteFetcher
	cache      cache.Cache
}

// NewProcessor creates a processor over the company directory and the
// CIK to fund name table. bodies caches remote filings; nil disables it.
func NewProcessor(companies *reference.Directory, funds map[string]string, matcher *reference.Matcher, fetcher RemoteFetcher, bodies cache.Cache) *Processor {
	if bodies == nil {
		bodies = cache.Nop{}
	}
	if matcher == nil {
		matcher = reference.NewMatcher(companies, nil)
	}
	return &Processor{
		companies:  companies,
		firstWords: companies.FirstWords(),
		funds:      funds,
		matcher:    matcher,
		fetcher:    fetcher,
		cache:      bodies,
	}
}

// Process implements worker.Processor
func (p *Processor) Process(ctx context.Context, source string) ([]model.Holding, error) {
	return p.ProcessFile(ctx, source)
}

// ProcessFile extracts the holdings of one filing. source is a local path,
// a URL, or "URL NAME" where NAME supplies the CIK_FORM_DATE file name of a
// remote filing.
func (p *Processor) ProcessFile(ctx context.Context, source string) ([]model.Holding, error) {
	body, name, err := p.load(ctx, source)
	if err != nil {
		return nil, err
	}

	info, err := ParseFileName(name)
	if err != nil {
		return nil, err
	}

	fund, ok := p.funds[reference.NormalizeCIK(info.CIK)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCIK, info.CIK)
	}

	period, ok := ReportPeriod(string(body))
	if !ok {
		return nil, fmt.Errorf("%s: %w", info.Name, ErrNoReportPeriod)
	}

	grid, err := ParseTables(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", info.Name, err)
	}

	rows, err := Extract(grid, p.firstWords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", info.Name, err)
	}

	holdings := make([]model.Holding, 0, len(rows))
	for _, r := range rows {
		holdings = append(holdings, model.Holding{
			Company:      r.Company,
			Shares:       r.Shares,
			CIK:          info.CIK,
			Form:         info.Form,
			Fund:         fund,
			QuarterFiled: info.Quarter,
			FileName:     info.Name,
			ReportPeriod: period,
		})
	}
	return Dedupe(DropIncomplete(holdings)), nil
}

// Enrich fuzzy-matches every holding's company and copies the reference
// fields of the match. Holdings without a candidate keep empty reference fields.
func (p *Processor) Enrich(holdings []model.Holding) []model.Holding {
	out := make([]model.Holding, len(holdings))
	for i, h := range holdings {
		if m, ok := p.matcher.BestMatch(h.Company); ok {
			h.MatchedName = m.Company.Name
			h.Symbol = m.Company.Symbol
			h.MarketCap = m.Company.MarketCap
			h.Sector = m.Company.Sector
			h.Industry = m.Company.Industry
		}
		out[i] = h
	}
	return out
}

func (p *Processor) load(ctx context.Context, source string) ([]byte, string, error) {
	source = strings.TrimSpace(source)
	if !isURL(source) {
		body, err := os.ReadFile(source)
		if err != nil {
			return nil, "", fmt.Errorf("read filing: %w", err)
		}
		return body, source, nil
	}

	rawURL, name, _ := strings.Cut(source, " ")
	name = strings.TrimSpace(name)

	key := cache.CacheKey(cache.KindFiling, rawURL)
	if body, ok := p.cache.Get(key); ok {
		if name == "" {
			name = path.Base(rawURL)
		}
		return body, name, nil
	}

	if p.fetcher == nil {
		return nil, "", fmt.Errorf("remote filing %s: no fetcher configured", rawURL)
	}
	res, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, "", err
	}
	body := []byte(res.Body)
	_ = p.cache.Set(key, body, 0)

	if name == "" {
		name = res.Name
	}
	return body, name, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// DropIncomplete removes holdings with an empty text field
func DropIncomplete(holdings []model.Holding) []model.Holding {
	out := holdings[:0:0]
	for _, h := range holdings {
		if h.Company == "" || h.CIK == "" || h.Form == "" || h.Fund == "" ||
			h.QuarterFiled == "" || h.FileName == "" || h.ReportPeriod == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Dedupe keeps the first of each identical holding, preserving order
func Dedupe(holdings []model.Holding) []model.Holding {
	seen := make(map[model.HoldingKey]bool, len(holdings))
	out := holdings[:0:0]
	for _, h := range holdings {
		k := h.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}
	return out
}
