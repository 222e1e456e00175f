package http

import (
	"bytes"
	"net/http"

	"ledger/internal/log"
	"ledger/internal/reports"
	"ledger/internal/sheets"
)

type exportResponse struct {
	Month string `json:"month"`
	Ref   string `json:"ref"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := requireMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	sum, err := s.reports.Summary(r.Context(), currentUser(r.Context()).ID, month)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	sum.Breakdown = nonNil(sum.Breakdown)
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	month, err := requireMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	items, err := s.reports.BudgetStatus(r.Context(), currentUser(r.Context()).ID, month)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

// handleSummaryCSV serves the summary as a downloadable CSV file.
func (s *Server) handleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	month, err := requireMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	sum, err := s.reports.Summary(r.Context(), currentUser(r.Context()).ID, month)
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, sum); err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+reports.CSVFilename(month))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleExportSummary pushes the summary to the configured spreadsheet.
func (s *Server) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, r, log.OpExport, sheets.ErrExportDisabled)
		return
	}
	month, err := requireMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	sum, err := s.reports.Summary(r.Context(), currentUser(r.Context()).ID, month)
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}

	ref, err := s.exporter.ExportSummary(r.Context(), sum)
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Summary exported", log.FieldMonth, month.String(), "ref", ref)
	writeJSON(w, http.StatusOK, exportResponse{Month: month.String(), Ref: ref})
}
