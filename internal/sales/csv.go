package sales

import (
	"strconv"

	"salespipe/internal/catalog"
)

// BaseColumns returns the cleaned-file header: the core schema followed by
// the passthrough columns in their source order.
func BaseColumns(passthrough []string) []string {
	cols := catalog.CoreColumns()
	out := make([]string, 0, len(cols)+len(passthrough))
	out = append(out, cols...)
	out = append(out, passthrough...)
	return out
}

// DerivedColumns returns the columns the enrichment stage appends, in output
// order.
func DerivedColumns() []string {
	return []string{
		"revenue",
		"year", "month", "day", "month_name", "day_name",
		"day_of_week", "quarter", "week_of_year",
		"is_weekend", "is_business_day",
		"revenue_tier", "product_category", "customer_segment",
		"price_percentile", "is_high_value", "is_bulk_order", "quantity_percentile",
		"region_revenue", "region_rank", "region_avg_revenue", "above_region_avg",
	}
}

// EnrichedColumns returns the full aggregates-file header for the given
// passthrough columns.
func EnrichedColumns(passthrough []string) []string {
	return append(BaseColumns(passthrough), DerivedColumns()...)
}

// Row projects the transaction onto the cleaned-file header produced by
// BaseColumns with the same passthrough list.
func (t Transaction) Row(passthrough []string) []string {
	out := make([]string, 0, 7+len(passthrough))
	out = append(out,
		t.ID,
		t.Date.Format(catalog.DateLayout),
		t.Region,
		t.Product,
		strconv.Itoa(t.Quantity),
		formatPrice(t.Price),
		t.Customer,
	)
	for _, col := range passthrough {
		out = append(out, t.Attrs[col])
	}
	return out
}

// Row projects the enriched record onto the aggregates-file header produced
// by EnrichedColumns with the same passthrough list.
func (e Enriched) Row(passthrough []string) []string {
	out := e.Transaction.Row(passthrough)
	out = append(out,
		formatMoney(e.Revenue),
		strconv.Itoa(e.Year),
		strconv.Itoa(e.Month),
		strconv.Itoa(e.Day),
		e.MonthName,
		e.DayName,
		strconv.Itoa(e.DayOfWeek),
		strconv.Itoa(e.Quarter),
		strconv.Itoa(e.WeekOfYear),
		strconv.FormatBool(e.IsWeekend),
		strconv.FormatBool(e.IsBusinessDay),
		e.RevenueTier,
		e.ProductCategory,
		e.CustomerSegment,
		strconv.FormatFloat(e.PricePercentile, 'f', 4, 64),
		strconv.FormatBool(e.IsHighValue),
		strconv.FormatBool(e.IsBulkOrder),
		strconv.FormatFloat(e.QuantityPercentile, 'f', 4, 64),
		formatMoney(e.RegionRevenue),
		strconv.Itoa(e.RegionRank),
		formatMoney(e.RegionAvgRevenue),
		strconv.FormatBool(e.AboveRegionAvg),
	)
	return out
}

// formatPrice preserves the source precision of a unit price (no trailing
// zero padding), so a cleaned file round-trips byte-identically.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// formatMoney renders derived monetary amounts with two decimal places.
func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
