package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"ledger/internal/core"
)

// Rows renders a summary in the fixed tabular layout used for CSV download
// and spreadsheet export: header rows, a blank separator, then one row per
// category.
func Rows(s core.Summary) [][]string {
	rows := [][]string{
		{"month", s.Month.String()},
		{"total_income", s.TotalIncome.String()},
		{"total_expense", s.TotalExpense.String()},
		{"net", s.Net.String()},
		{},
		{"category_id", "category_name", "type", "total"},
	}
	for _, ct := range s.Breakdown {
		rows = append(rows, []string{
			strconv.FormatInt(ct.CategoryID, 10),
			ct.CategoryName,
			ct.Type.String(),
			ct.Total.String(),
		})
	}
	return rows
}

// WriteCSV writes Rows(s) as CSV.
func WriteCSV(w io.Writer, s core.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(s)); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	return nil
}

// CSVFilename is the download name for the summary of month.
func CSVFilename(month core.Month) string {
	return "summary_" + month.String() + ".csv"
}
