package filings

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ppiankov/wrangle/internal/model"
)

var (
	intermediateHeader = []string{"Company", "Shares", "CIK", "Form", "Fund", "Quarter_Filed", "File_Name", "Report_Period"}
	enrichedHeader     = append(append([]string{}, intermediateHeader...), "Name", "Symbol", "MarketCap", "Sector", "industry")
)

// WriteCSV writes holdings with a header row. enriched adds the matched
// reference columns.
func WriteCSV(w io.Writer, holdings []model.Holding, enriched bool) error {
	cw := csv.NewWriter(w)

	header := intermediateHeader
	if enriched {
		header = enrichedHeader
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, h := range holdings {
		rec := []string{
			h.Company,
			strconv.FormatInt(h.Shares, 10),
			h.CIK,
			h.Form,
			h.Fund,
			h.QuarterFiled,
			h.FileName,
			h.ReportPeriod,
		}
		if enriched {
			rec = append(rec, h.MatchedName, h.Symbol, h.MarketCap, h.Sector, h.Industry)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates path and writes holdings to it
func WriteCSVFile(path string, holdings []model.Holding, enriched bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return WriteCSV(f, holdings, enriched)
}
