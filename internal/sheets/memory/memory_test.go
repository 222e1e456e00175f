package memory

import (
	"context"
	"testing"
	"time"

	"ledger/internal/core"
)

func TestStoreExportSummary(t *testing.T) {
	s := New()
	sum := core.Summary{
		Month:        core.Month{Year: 2025, Month: time.September},
		TotalExpense: core.Cents(3000000),
		Net:          core.Cents(-3000000),
		Breakdown: []core.CategoryTotal{
			{CategoryID: 1, CategoryName: "food", Type: core.Expense, Total: core.Cents(3000000)},
		},
	}

	ref, err := s.ExportSummary(context.Background(), sum)
	if err != nil || ref != "mem:Summary 2025-09" {
		t.Fatalf("unexpected export: ref=%q err=%v", ref, err)
	}

	rows, ok := s.Tab("Summary 2025-09")
	if !ok || len(rows) != 7 {
		t.Fatalf("unexpected tab: ok=%v rows=%v", ok, rows)
	}
	if rows[6][1] != "food" || rows[6][3] != "30000.00" {
		t.Errorf("unexpected category row: %v", rows[6])
	}

	// Re-export overwrites.
	sum.Breakdown = nil
	if _, err := s.ExportSummary(context.Background(), sum); err != nil {
		t.Fatal(err)
	}
	rows, _ = s.Tab("Summary 2025-09")
	if len(rows) != 6 {
		t.Errorf("expected overwrite, got %d rows", len(rows))
	}

	if _, ok := s.Tab("Summary 2025-10"); ok {
		t.Error("unexpected tab for another month")
	}
}
