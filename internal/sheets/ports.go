package sheets

import (
	"context"
	"errors"

	"ledger/internal/core"
)

// ErrExportDisabled is returned when no export backend is configured.
var ErrExportDisabled = errors.New("summary export is disabled")

// Ports for outbound adapters.
type (
	// SummaryExporter writes the tabular rendering of a monthly summary to an
	// external sheet and returns a reference to where it landed.
	SummaryExporter interface {
		ExportSummary(ctx context.Context, s core.Summary) (ref string, err error)
	}
)

// TabTitle names the sheet tab holding the summary of month.
func TabTitle(month core.Month) string {
	return "Summary " + month.String()
}
