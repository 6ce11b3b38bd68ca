package enrich

import (
	"sort"

	"salespipe/internal/sales"
)

// aggregates holds the pass-one rollups every aggregate-derived column reads
// from: lifetime revenue per customer, revenue totals and ranks per region,
// and the sorted price and quantity distributions for percentile lookup.
// Building these once up front keeps the attach pass linear; recomputing them
// per record would be quadratic over day-sized inputs.
type aggregates struct {
	customerRevenue map[string]float64

	regionRevenue map[string]float64
	regionCount   map[string]int
	regionRank    map[string]int

	prices     []float64 // ascending
	quantities []float64 // ascending
}

// buildAggregates performs the aggregate pass over the full accepted set.
// It must complete before any record is enriched.
func buildAggregates(txs []sales.Transaction) *aggregates {
	a := &aggregates{
		customerRevenue: make(map[string]float64),
		regionRevenue:   make(map[string]float64),
		regionCount:     make(map[string]int),
		regionRank:      make(map[string]int),
		prices:          make([]float64, 0, len(txs)),
		quantities:      make([]float64, 0, len(txs)),
	}

	for _, tx := range txs {
		rev := revenue(tx.Quantity, tx.Price)
		a.customerRevenue[tx.Customer] += rev
		a.regionRevenue[tx.Region] += rev
		a.regionCount[tx.Region]++
		a.prices = append(a.prices, tx.Price)
		a.quantities = append(a.quantities, float64(tx.Quantity))
	}
	sort.Float64s(a.prices)
	sort.Float64s(a.quantities)

	// Rank regions by revenue, highest first. Revenue ties break by region
	// name so the ranking is deterministic across runs.
	names := make([]string, 0, len(a.regionRevenue))
	for name := range a.regionRevenue {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := a.regionRevenue[names[i]], a.regionRevenue[names[j]]
		if ri != rj {
			return ri > rj
		}
		return names[i] < names[j]
	})
	for i, name := range names {
		a.regionRank[name] = i + 1
	}

	return a
}

// pricePercentile returns the share of accepted prices at or below p, in
// (0, 1]. Tied prices share a rank: the count is of all values ≤ p, so every
// copy of the same price reports the same percentile and the maximum price
// reports exactly 1.
func (a *aggregates) pricePercentile(p float64) float64 {
	return rankPct(a.prices, p)
}

// quantityPercentile returns the share of accepted quantities at or below q,
// with the same tie and bound behavior as pricePercentile.
func (a *aggregates) quantityPercentile(q float64) float64 {
	return rankPct(a.quantities, q)
}

func rankPct(sorted []float64, v float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
	return float64(i) / float64(len(sorted))
}
