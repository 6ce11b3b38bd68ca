package enrich

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"salespipe/internal/catalog"
	"salespipe/internal/sales"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(catalog.DateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func tx(id, customer, region, product string, quantity int, price float64, date time.Time) sales.Transaction {
	return sales.Transaction{
		ID:       id,
		Date:     date,
		Region:   region,
		Product:  product,
		Quantity: quantity,
		Price:    price,
		Customer: customer,
	}
}

func TestRevenueRounding(t *testing.T) {
	tests := []struct {
		quantity int
		price    float64
		want     float64
	}{
		{5, 20.00, 100.00},
		{3, 9.99, 29.97},
		{1, 0.025, 0.03}, // rounds half away from zero
		{2, 7.555, 15.11},
	}
	for _, tt := range tests {
		if got := revenue(tt.quantity, tt.price); got != tt.want {
			t.Fatalf("revenue(%d, %v) = %v, want %v", tt.quantity, tt.price, got, tt.want)
		}
	}
}

func TestSplitDate(t *testing.T) {
	tests := []struct {
		date       string
		monthName  string
		dayName    string
		dayOfWeek  int
		quarter    int
		weekOfYear int
		weekend    bool
	}{
		{"2025-01-01", "January", "Wednesday", 2, 1, 1, false},
		{"2025-03-15", "March", "Saturday", 5, 1, 11, true},
		{"2025-03-16", "March", "Sunday", 6, 1, 11, true},
		{"2025-03-17", "March", "Monday", 0, 1, 12, false},
		{"2025-12-31", "December", "Wednesday", 2, 4, 1, false}, // ISO week wraps into next year
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			dp := splitDate(mustDate(t, tt.date))
			if dp.MonthName != tt.monthName || dp.DayName != tt.dayName {
				t.Fatalf("names = %s/%s, want %s/%s", dp.MonthName, dp.DayName, tt.monthName, tt.dayName)
			}
			if dp.DayOfWeek != tt.dayOfWeek {
				t.Fatalf("DayOfWeek = %d, want %d", dp.DayOfWeek, tt.dayOfWeek)
			}
			if dp.Quarter != tt.quarter {
				t.Fatalf("Quarter = %d, want %d", dp.Quarter, tt.quarter)
			}
			if dp.WeekOfYear != tt.weekOfYear {
				t.Fatalf("WeekOfYear = %d, want %d", dp.WeekOfYear, tt.weekOfYear)
			}
			if dp.IsWeekend != tt.weekend || dp.IsBusinessDay == tt.weekend {
				t.Fatalf("weekend flags = %v/%v, want weekend=%v", dp.IsWeekend, dp.IsBusinessDay, tt.weekend)
			}
		})
	}
}

func TestPricePercentileTies(t *testing.T) {
	d := mustDate(t, "2025-03-14")
	txs := []sales.Transaction{
		tx("T1", "C1", "North", "Cable", 1, 5, d),
		tx("T2", "C1", "North", "Cable", 1, 10, d),
		tx("T3", "C1", "North", "Cable", 1, 10, d),
		tx("T4", "C1", "North", "Cable", 1, 20, d),
	}
	agg := buildAggregates(txs)

	tests := []struct {
		price float64
		want  float64
	}{
		{5, 0.25},
		{10, 0.75}, // tied prices share the higher rank
		{20, 1.0},  // the maximum is exactly 1
	}
	for _, tt := range tests {
		if got := agg.pricePercentile(tt.price); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("pricePercentile(%v) = %v, want %v", tt.price, got, tt.want)
		}
	}
}

func TestQuantityPercentile(t *testing.T) {
	d := mustDate(t, "2025-03-14")
	txs := []sales.Transaction{
		tx("T1", "C1", "North", "Cable", 3, 5, d),
		tx("T2", "C1", "North", "Cable", 3, 5, d),
		tx("T3", "C1", "North", "Cable", 7, 5, d),
		tx("T4", "C1", "North", "Cable", 50, 5, d),
	}
	agg := buildAggregates(txs)

	tests := []struct {
		quantity float64
		want     float64
	}{
		{3, 0.5}, // tied quantities share the higher rank
		{7, 0.75},
		{50, 1.0}, // the maximum is exactly 1
	}
	for _, tt := range tests {
		if got := agg.quantityPercentile(tt.quantity); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("quantityPercentile(%v) = %v, want %v", tt.quantity, got, tt.want)
		}
	}
}

func TestEnrichDerivedColumns(t *testing.T) {
	cat := catalog.Default()
	runDate := mustDate(t, "2025-03-15")
	friday := mustDate(t, "2025-03-14")

	txs := []sales.Transaction{
		tx("T1", "C1", "North", "Laptop", 2, 600, friday),
		tx("T2", "C1", "South", "Mouse", 1, 20, friday),
		tx("T3", "C2", "North", "Cable", 12, 5, friday),
	}

	engine := NewEngine(cat, 2)
	enriched, report, err := engine.Enrich(context.Background(), runDate, txs)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if len(enriched) != 3 {
		t.Fatalf("len(enriched) = %d, want 3", len(enriched))
	}

	e1, e2, e3 := enriched[0], enriched[1], enriched[2]

	// Input order survives the fan-out.
	if e1.ID != "T1" || e2.ID != "T2" || e3.ID != "T3" {
		t.Fatalf("order = %s, %s, %s", e1.ID, e2.ID, e3.ID)
	}

	if e1.Revenue != 1200 || e2.Revenue != 20 || e3.Revenue != 60 {
		t.Fatalf("revenues = %v, %v, %v", e1.Revenue, e2.Revenue, e3.Revenue)
	}

	// Tier, category, and segment lookups.
	if e1.RevenueTier != "High" || e2.RevenueTier != "Low" {
		t.Fatalf("tiers = %s, %s", e1.RevenueTier, e2.RevenueTier)
	}
	if e1.ProductCategory != "Computing" || e3.ProductCategory != "Accessories" {
		t.Fatalf("categories = %s, %s", e1.ProductCategory, e3.ProductCategory)
	}
	// C1's run revenue is 1220, C2's is 60.
	if e1.CustomerSegment != "Silver" || e2.CustomerSegment != "Silver" || e3.CustomerSegment != "Bronze" {
		t.Fatalf("segments = %s, %s, %s", e1.CustomerSegment, e2.CustomerSegment, e3.CustomerSegment)
	}

	// Price distribution is [5, 20, 600].
	if math.Abs(e1.PricePercentile-1.0) > 1e-9 {
		t.Fatalf("e1.PricePercentile = %v, want 1", e1.PricePercentile)
	}
	if !e1.IsHighValue || e2.IsHighValue || e3.IsHighValue {
		t.Fatalf("high-value flags = %v, %v, %v", e1.IsHighValue, e2.IsHighValue, e3.IsHighValue)
	}
	if e1.IsBulkOrder || !e3.IsBulkOrder {
		t.Fatalf("bulk flags = %v, %v", e1.IsBulkOrder, e3.IsBulkOrder)
	}

	// Quantity distribution is [1, 2, 12].
	if math.Abs(e1.QuantityPercentile-2.0/3.0) > 1e-9 {
		t.Fatalf("e1.QuantityPercentile = %v, want 2/3", e1.QuantityPercentile)
	}
	if math.Abs(e2.QuantityPercentile-1.0/3.0) > 1e-9 {
		t.Fatalf("e2.QuantityPercentile = %v, want 1/3", e2.QuantityPercentile)
	}
	if math.Abs(e3.QuantityPercentile-1.0) > 1e-9 {
		t.Fatalf("e3.QuantityPercentile = %v, want 1", e3.QuantityPercentile)
	}

	// Regional performance. North carries 1260 over two rows, South 20.
	if e1.RegionRevenue != 1260 || e2.RegionRevenue != 20 {
		t.Fatalf("region revenues = %v, %v", e1.RegionRevenue, e2.RegionRevenue)
	}
	if e1.RegionRank != 1 || e2.RegionRank != 2 {
		t.Fatalf("region ranks = %d, %d", e1.RegionRank, e2.RegionRank)
	}
	if e1.RegionAvgRevenue != 630 || e3.RegionAvgRevenue != 630 {
		t.Fatalf("region averages = %v, %v", e1.RegionAvgRevenue, e3.RegionAvgRevenue)
	}
	if !e1.AboveRegionAvg || e3.AboveRegionAvg || e2.AboveRegionAvg {
		t.Fatalf("above-average flags = %v, %v, %v", e1.AboveRegionAvg, e2.AboveRegionAvg, e3.AboveRegionAvg)
	}

	// Calendar columns for a Friday.
	if e1.Year != 2025 || e1.Month != 3 || e1.Day != 14 || e1.Quarter != 1 {
		t.Fatalf("date parts = %d-%d-%d Q%d", e1.Year, e1.Month, e1.Day, e1.Quarter)
	}
	if e1.DayName != "Friday" || e1.DayOfWeek != 4 || e1.IsWeekend || !e1.IsBusinessDay {
		t.Fatalf("weekday columns = %s/%d/%v/%v", e1.DayName, e1.DayOfWeek, e1.IsWeekend, e1.IsBusinessDay)
	}

	// Report totals computed over the final set.
	if report.Rows != 3 {
		t.Fatalf("report.Rows = %d, want 3", report.Rows)
	}
	if report.ColumnsBefore != 7 || report.ColumnsAfter != 29 {
		t.Fatalf("report columns = %d -> %d, want 7 -> 29", report.ColumnsBefore, report.ColumnsAfter)
	}
	if report.TotalRevenue != 1280 {
		t.Fatalf("report.TotalRevenue = %v, want 1280", report.TotalRevenue)
	}
	if report.AverageRevenue != 426.67 {
		t.Fatalf("report.AverageRevenue = %v, want 426.67", report.AverageRevenue)
	}
	if report.RunID == "" {
		t.Fatal("report has no run id")
	}
}

// Tier boundaries are half-open: a revenue exactly on a boundary maps to the
// higher bucket.
func TestRevenueTierBoundaries(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		revenue float64
		want    string
	}{
		{0, "Low"},
		{99.99, "Low"},
		{100, "Medium"},
		{499.99, "Medium"},
		{500, "High"},
		{2000, "Premium"},
		{1e9, "Premium"},
	}
	for _, tt := range tests {
		if got := catalog.BucketFor(tt.revenue, cat.RevenueTiers); got != tt.want {
			t.Fatalf("BucketFor(%v) = %q, want %q", tt.revenue, got, tt.want)
		}
	}
}

func TestEnrichRejectsUnvalidatedRecord(t *testing.T) {
	cat := catalog.Default()
	runDate := mustDate(t, "2025-03-15")
	d := mustDate(t, "2025-03-14")

	tests := []struct {
		name string
		bad  sales.Transaction
	}{
		{"zero quantity", tx("T1", "C1", "North", "Cable", 0, 5, d)},
		{"negative price", tx("T1", "C1", "North", "Cable", 1, -5, d)},
		{"empty customer", tx("T1", "", "North", "Cable", 1, 5, d)},
		{"zero date", tx("T1", "C1", "North", "Cable", 1, 5, time.Time{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(cat, 1)
			_, _, err := engine.Enrich(context.Background(), runDate, []sales.Transaction{tt.bad})
			if !errors.Is(err, ErrNotValidated) {
				t.Fatalf("error = %v, want ErrNotValidated", err)
			}
		})
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	engine := NewEngine(catalog.Default(), 4)
	enriched, report, err := engine.Enrich(context.Background(), mustDate(t, "2025-03-15"), nil)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if len(enriched) != 0 {
		t.Fatalf("len(enriched) = %d, want 0", len(enriched))
	}
	if report.Rows != 0 || report.TotalRevenue != 0 || report.AverageRevenue != 0 {
		t.Fatalf("report = %+v, want zero totals", report)
	}
}

func TestEnrichCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(catalog.Default(), 1)
	d := mustDate(t, "2025-03-14")
	_, _, err := engine.Enrich(ctx, mustDate(t, "2025-03-15"), []sales.Transaction{
		tx("T1", "C1", "North", "Cable", 1, 5, d),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
