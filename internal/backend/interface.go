// Package backend selects and builds the destination for summary exports.
package backend

import (
	"context"

	"ledger/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result holds the exporter and an optional cleanup. Exporter is nil when
// export is disabled.
type Result struct {
	Exporter sheets.SummaryExporter
	Cleanup  CleanupFunc
}

// Factory creates exporters based on configuration
type Factory interface {
	CreateExporter(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for exporter creation
type Config struct {
	Type Type

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

// Type names an export backend.
type Type string

const (
	None   Type = "none"
	Memory Type = "memory"
	Sheets Type = "sheets"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case None, Memory, Sheets:
		return true
	default:
		return false
	}
}
