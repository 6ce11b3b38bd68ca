package sales

import (
	"reflect"
	"testing"
	"time"

	"salespipe/internal/catalog"
)

func TestColumnHeaders(t *testing.T) {
	base := BaseColumns(nil)
	if !reflect.DeepEqual(base, catalog.CoreColumns()) {
		t.Fatalf("BaseColumns(nil) = %v", base)
	}

	withExtra := BaseColumns([]string{"channel"})
	if len(withExtra) != 8 || withExtra[7] != "channel" {
		t.Fatalf("BaseColumns(channel) = %v", withExtra)
	}

	enriched := EnrichedColumns(nil)
	if len(enriched) != 29 {
		t.Fatalf("len(EnrichedColumns(nil)) = %d, want 29", len(enriched))
	}
	if enriched[7] != "revenue" || enriched[28] != "above_region_avg" {
		t.Fatalf("derived column order off: %v", enriched)
	}
	if enriched[24] != "quantity_percentile" {
		t.Fatalf("enriched[24] = %q, want quantity_percentile", enriched[24])
	}
}

func TestTransactionRow(t *testing.T) {
	d, _ := time.Parse(catalog.DateLayout, "2025-03-14")
	tx := Transaction{
		ID:        "T1",
		Date:      d,
		Region:    "North",
		Product:   "Laptop",
		Quantity:  2,
		Price:     999.99,
		Customer:  "C1",
		Attrs:     map[string]string{"channel": "web"},
		AttrOrder: []string{"channel"},
	}

	got := tx.Row([]string{"channel"})
	want := []string{"T1", "2025-03-14", "North", "Laptop", "2", "999.99", "C1", "web"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Row() = %v, want %v", got, want)
	}
}

// Unit prices keep their source precision; derived money gets two decimals.
func TestPriceFormatting(t *testing.T) {
	d, _ := time.Parse(catalog.DateLayout, "2025-03-14")

	tx := Transaction{ID: "T1", Date: d, Region: "North", Product: "Cable", Quantity: 1, Price: 1000, Customer: "C1"}
	if got := tx.Row(nil)[5]; got != "1000" {
		t.Fatalf("price cell = %q, want %q", got, "1000")
	}

	e := Enriched{Transaction: tx, Revenue: 1000}
	row := e.Row(nil)
	if row[7] != "1000.00" {
		t.Fatalf("revenue cell = %q, want %q", row[7], "1000.00")
	}
}

func TestEnrichedRow(t *testing.T) {
	d, _ := time.Parse(catalog.DateLayout, "2025-03-14")
	e := Enriched{
		Transaction: Transaction{
			ID: "T1", Date: d, Region: "North", Product: "Laptop",
			Quantity: 2, Price: 600, Customer: "C1",
		},
		Revenue:            1200,
		Year:               2025,
		Month:              3,
		Day:                14,
		MonthName:          "March",
		DayName:            "Friday",
		DayOfWeek:          4,
		Quarter:            1,
		WeekOfYear:         11,
		IsWeekend:          false,
		IsBusinessDay:      true,
		RevenueTier:        "High",
		ProductCategory:    "Computing",
		CustomerSegment:    "Silver",
		PricePercentile:    1,
		IsHighValue:        true,
		IsBulkOrder:        false,
		QuantityPercentile: 0.5,
		RegionRevenue:      1260,
		RegionRank:         1,
		RegionAvgRevenue:   630,
		AboveRegionAvg:     true,
	}

	got := e.Row(nil)
	want := []string{
		"T1", "2025-03-14", "North", "Laptop", "2", "600", "C1",
		"1200.00",
		"2025", "3", "14", "March", "Friday",
		"4", "1", "11",
		"false", "true",
		"High", "Computing", "Silver",
		"1.0000", "true", "false", "0.5000",
		"1260.00", "1", "630.00", "true",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Row() =\n%v\nwant\n%v", got, want)
	}
	if len(got) != len(EnrichedColumns(nil)) {
		t.Fatalf("row width %d != header width %d", len(got), len(EnrichedColumns(nil)))
	}
}

func TestRejectionRate(t *testing.T) {
	s := ValidationSummary{Input: 4, Rejected: 1}
	if got := s.RejectionRate(); got != 0.25 {
		t.Fatalf("RejectionRate() = %v, want 0.25", got)
	}
	if got := (ValidationSummary{}).RejectionRate(); got != 0 {
		t.Fatalf("empty RejectionRate() = %v, want 0", got)
	}
}
