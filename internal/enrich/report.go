package enrich

import (
	"time"

	"github.com/google/uuid"

	"salespipe/internal/sales"
)

// buildReport summarizes one enrichment run over the final enriched set.
func buildReport(runDate time.Time, txs []sales.Transaction, enriched []sales.Enriched, elapsed time.Duration) sales.RunReport {
	var total float64
	for _, e := range enriched {
		total += e.Revenue
	}

	avg := 0.0
	if len(enriched) > 0 {
		avg = round2(total / float64(len(enriched)))
	}

	passthrough := 0
	if len(txs) > 0 {
		passthrough = len(txs[0].AttrOrder)
	}
	before := len(sales.BaseColumns(nil)) + passthrough

	return sales.RunReport{
		RunID:          uuid.NewString(),
		RunDate:        runDate,
		Rows:           len(enriched),
		ColumnsBefore:  before,
		ColumnsAfter:   before + len(sales.DerivedColumns()),
		TotalRevenue:   round2(total),
		AverageRevenue: avg,
		Elapsed:        elapsed,
	}
}
