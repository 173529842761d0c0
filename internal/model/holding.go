package model

// Holding is one portfolio position reported in an N-Q filing
type Holding struct {
	Company      string `json:"company"`       // Issuer name as written in the filing
	Shares       int64  `json:"shares"`        // Number of shares held
	CIK          string `json:"cik"`           // Central Index Key of the filer
	Form         string `json:"form"`          // Form type, e.g. N-Q
	Fund         string `json:"fund"`          // Filer name from the CIK table
	QuarterFiled string `json:"quarter_filed"` // e.g. 2012Q4
	FileName     string `json:"file_name"`     // Source filing name
	ReportPeriod string `json:"report_period"` // CONFORMED PERIOD OF REPORT (YYYYMMDD)

	// Populated by fuzzy matching against the exchange company list
	MatchedName string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	MarketCap   string `json:"market_cap,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

// HoldingKey identifies duplicate holdings within a filing
type HoldingKey struct {
	Company string
	Shares  int64
	CIK     string
	Form    string
	Fund    string
	Quarter string
	File    string
	Period  string
}

// Key returns the deduplication key of a holding
func (h Holding) Key() HoldingKey {
	return HoldingKey{
		Company: h.Company,
		Shares:  h.Shares,
		CIK:     h.CIK,
		Form:    h.Form,
		Fund:    h.Fund,
		Quarter: h.QuarterFiled,
		File:    h.FileName,
		Period:  h.ReportPeriod,
	}
}
