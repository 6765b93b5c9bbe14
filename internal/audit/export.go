package audit

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// csvHeader is the fixed export header row.
const csvHeader = "Time,Device,Action,User"

// ExportCSV writes the trail as CSV, most recent first, one quoted row
// per entry. An empty trail refuses with ErrNothingToExport rather than
// emitting a header-only file.
func (t *Trail) ExportCSV(w io.Writer) error {
	entries := t.Entries()
	if len(entries) == 0 {
		return ErrNothingToExport
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, csvHeader)
	for _, e := range entries {
		fmt.Fprintf(bw, "%s,%s,%s,%s\n",
			csvQuote(e.Time), csvQuote(e.Device), csvQuote(e.Action), csvQuote(e.User))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing csv export: %w", err)
	}
	return nil
}

// ExportFilename returns the download filename for an export taken at
// the given time, e.g. "hearth_logs_20260829140501.csv".
func ExportFilename(at time.Time) string {
	return fmt.Sprintf("hearth_logs_%s.csv", at.Format("20060102150405"))
}

// csvQuote wraps a field in double quotes, doubling any embedded quotes
// per RFC 4180. Every field is quoted, matching the export format.
func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
