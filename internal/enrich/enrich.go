// Package enrich implements stage two of the pipeline: the enrichment
// engine. It derives the analytical columns over a validated transaction set
// and produces the run report.
//
// Per-record derivations (revenue, date parts, tier, category, indicator
// flags) depend only on the record itself, so the attach pass fans out over
// a bounded worker pool writing results by index. Aggregate-derived columns
// (customer segment, price percentile, regional performance) read from
// rollups built in a single sequential pass that completes before any worker
// starts; that ordering is the engine's only barrier.
//
// The engine trusts its input: it assumes the validator ran and does not
// re-validate. A record that breaks that assumption aborts the whole run.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"salespipe/internal/catalog"
	"salespipe/internal/sales"
)

// ErrNotValidated marks an internal-consistency violation: a record reached
// enrichment without surviving validation. The run must abort; there is no
// row-level recovery in stage two.
var ErrNotValidated = errors.New("record did not pass validation")

// Engine derives the enriched column set for one run.
type Engine struct {
	cat     catalog.Catalog
	workers int
}

// NewEngine builds an enrichment engine. workers bounds the attach-pass
// fan-out; values below 1 default to GOMAXPROCS.
func NewEngine(cat catalog.Catalog, workers int) *Engine {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{cat: cat, workers: workers}
}

// Enrich derives all analytical columns over txs and returns the enriched
// set, in input order, together with the run report. The report's totals are
// computed once over the final set.
func (e *Engine) Enrich(ctx context.Context, runDate time.Time, txs []sales.Transaction) ([]sales.Enriched, sales.RunReport, error) {
	start := time.Now()

	if err := checkValidated(txs); err != nil {
		return nil, sales.RunReport{}, err
	}

	agg := buildAggregates(txs)

	out := make([]sales.Enriched, len(txs))
	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(txs) + e.workers - 1) / e.workers
	for lo := 0; lo < len(txs); lo += chunk {
		hi := min(lo+chunk, len(txs))
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for i := lo; i < hi; i++ {
				out[i] = e.enrichOne(txs[i], agg)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, sales.RunReport{}, err
	}

	return out, buildReport(runDate, txs, out, time.Since(start)), nil
}

// enrichOne attaches every derived column to a single transaction. It is
// pure: the result depends only on the transaction, the catalog, and the
// pass-one aggregates.
func (e *Engine) enrichOne(tx sales.Transaction, agg *aggregates) sales.Enriched {
	rev := revenue(tx.Quantity, tx.Price)
	dp := splitDate(tx.Date)

	regionRev := agg.regionRevenue[tx.Region]
	regionAvg := round2(regionRev / float64(agg.regionCount[tx.Region]))
	pct := agg.pricePercentile(tx.Price)

	return sales.Enriched{
		Transaction: tx,

		Revenue: rev,

		Year:          dp.Year,
		Month:         dp.Month,
		Day:           dp.Day,
		MonthName:     dp.MonthName,
		DayName:       dp.DayName,
		DayOfWeek:     dp.DayOfWeek,
		Quarter:       dp.Quarter,
		WeekOfYear:    dp.WeekOfYear,
		IsWeekend:     dp.IsWeekend,
		IsBusinessDay: dp.IsBusinessDay,

		RevenueTier:     catalog.BucketFor(rev, e.cat.RevenueTiers),
		ProductCategory: e.cat.CategoryFor(tx.Product),
		CustomerSegment: catalog.BucketFor(agg.customerRevenue[tx.Customer], e.cat.CustomerSegments),

		PricePercentile:    pct,
		IsHighValue:        pct >= e.cat.HighValuePercentile,
		IsBulkOrder:        tx.Quantity > e.cat.BulkQuantity,
		QuantityPercentile: agg.quantityPercentile(float64(tx.Quantity)),

		RegionRevenue:    round2(regionRev),
		RegionRank:       agg.regionRank[tx.Region],
		RegionAvgRevenue: regionAvg,
		AboveRegionAvg:   rev > regionAvg,
	}
}

// checkValidated asserts the stage-one postconditions enrichment relies on.
func checkValidated(txs []sales.Transaction) error {
	for i, tx := range txs {
		switch {
		case tx.ID == "":
			return fmt.Errorf("record %d: empty transaction id: %w", i, ErrNotValidated)
		case tx.Customer == "":
			return fmt.Errorf("record %d (%s): empty customer id: %w", i, tx.ID, ErrNotValidated)
		case tx.Product == "":
			return fmt.Errorf("record %d (%s): empty product: %w", i, tx.ID, ErrNotValidated)
		case tx.Region == "":
			return fmt.Errorf("record %d (%s): empty region: %w", i, tx.ID, ErrNotValidated)
		case tx.Quantity <= 0:
			return fmt.Errorf("record %d (%s): quantity %d: %w", i, tx.ID, tx.Quantity, ErrNotValidated)
		case tx.Price <= 0:
			return fmt.Errorf("record %d (%s): price %g: %w", i, tx.ID, tx.Price, ErrNotValidated)
		case tx.Date.IsZero():
			return fmt.Errorf("record %d (%s): zero date: %w", i, tx.ID, ErrNotValidated)
		}
	}
	return nil
}
