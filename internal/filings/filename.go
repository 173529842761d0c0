package filings

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrBadFileName is returned for names not shaped CIK_FORM_YYYY-MM-DD
	ErrBadFileName = errors.New("bad filing name")
	// ErrNoReportPeriod is returned when the filing header has no period of report
	ErrNoReportPeriod = errors.New("no period of report")
)

var periodRe = regexp.MustCompile(`PERIOD OF REPORT:?\s*(\d{8})`)

// FileInfo is what a filing's name says about it
type FileInfo struct {
	CIK     string
	Form    string
	Filed   time.Time
	Quarter string
	Name    string
}

// ParseFileName parses names like 102909_N-Q_2015-03-02.txt. Anything after
// the date segment, such as an extension or accession suffix, is ignored.
func ParseFileName(name string) (FileInfo, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))

	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrBadFileName, base)
	}

	datePart := parts[2]
	if len(datePart) < len("2006-01-02") {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrBadFileName, base)
	}
	filed, err := time.Parse("2006-01-02", datePart[:10])
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: %s: %v", ErrBadFileName, base, err)
	}

	return FileInfo{
		CIK:     parts[0],
		Form:    parts[1],
		Filed:   filed,
		Quarter: Quarter(filed),
		Name:    base,
	}, nil
}

// Quarter formats t as YYYYQn
func Quarter(t time.Time) string {
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

// ReportPeriod finds the eight digit period of report in the filing header
func ReportPeriod(text string) (string, bool) {
	m := periodRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
