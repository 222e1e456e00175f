package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/reports"
	ports "ledger/internal/sheets"
)

// Store keeps exported summaries in process, one tab per month.
type Store struct {
	mu   sync.Mutex
	tabs map[string][][]string
}

var _ ports.SummaryExporter = (*Store)(nil)

func New() *Store {
	return &Store{tabs: map[string][][]string{}}
}

// ExportSummary replaces the month's tab with the summary rows.
func (s *Store) ExportSummary(_ context.Context, sum core.Summary) (string, error) {
	title := ports.TabTitle(sum.Month)
	rows := reports.Rows(sum)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[title] = rows
	return "mem:" + title, nil
}

// Tab returns a copy of the rows stored under title.
func (s *Store) Tab(title string) ([][]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[title]
	if !ok {
		return nil, false
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, true
}
