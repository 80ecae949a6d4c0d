package exporter

import (
	"fmt"

	"github.com/jszwec/csvutil"

	"fleetjobs/internal/analysis"
)

// SummaryCSV renders the reconciled report rows as CSV with the same column
// headers the Excel report uses. Column selection follows the csv tags on
// ReportRow.
func SummaryCSV(rows []analysis.ReportRow) ([]byte, error) {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report rows: %w", err)
	}
	return data, nil
}
