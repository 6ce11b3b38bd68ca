package run

import (
	"strings"
	"testing"
	"time"

	"salespipe/internal/sales"
)

func TestPrintSummary(t *testing.T) {
	var buf strings.Builder
	PrintSummary(&buf, sales.ValidationSummary{
		RunID:    "run-1",
		RunDate:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Input:    1234567,
		Accepted: 1200000,
		Rejected: 34567,
		ByReason: map[sales.Reason]int{
			sales.ReasonDuplicate: 34567,
		},
		Elapsed: 1500 * time.Millisecond,
	})
	out := buf.String()

	if !strings.Contains(out, "1,234,567") {
		t.Fatalf("input count not thousands-separated:\n%s", out)
	}
	if !strings.Contains(out, "duplicate") {
		t.Fatalf("nonzero reason missing:\n%s", out)
	}
	if strings.Contains(out, "invalid_price") {
		t.Fatalf("zero-count reason printed:\n%s", out)
	}
	if !strings.Contains(out, "2025-03-15") {
		t.Fatalf("run date missing:\n%s", out)
	}
}

func TestPrintReport(t *testing.T) {
	var buf strings.Builder
	PrintReport(&buf, sales.RunReport{
		RunID:          "run-2",
		RunDate:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Rows:           2500000,
		ColumnsBefore:  7,
		ColumnsAfter:   29,
		TotalRevenue:   1234567.89,
		AverageRevenue: 0.49,
		Elapsed:        2 * time.Second,
	})
	out := buf.String()

	if !strings.Contains(out, "2,500,000") {
		t.Fatalf("row count not thousands-separated:\n%s", out)
	}
	if !strings.Contains(out, "7 -> 29") {
		t.Fatalf("column transition missing:\n%s", out)
	}
	if !strings.Contains(out, "1,234,567.89") {
		t.Fatalf("total revenue missing:\n%s", out)
	}
}
