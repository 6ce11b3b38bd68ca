package validator

import (
	"time"

	"github.com/google/uuid"

	"salespipe/internal/sales"
)

// collector tallies per-run validation counts. It is the only writer of a
// run's ValidationSummary; once summary is called the result never changes.
type collector struct {
	in       int
	accepted int
	byReason map[sales.Reason]int
}

func newCollector() *collector {
	return &collector{byReason: make(map[sales.Reason]int, len(sales.Reasons()))}
}

func (c *collector) input()  { c.in++ }
func (c *collector) accept() { c.accepted++ }

func (c *collector) reject(r sales.Reason) { c.byReason[r]++ }

// summary freezes the tallies into the run's immutable summary. The reason
// histogram always carries the full closed set so downstream consumers see
// explicit zeroes.
func (c *collector) summary(runDate time.Time, elapsed time.Duration) sales.ValidationSummary {
	hist := make(map[sales.Reason]int, len(sales.Reasons()))
	rejected := 0
	for _, r := range sales.Reasons() {
		hist[r] = c.byReason[r]
		rejected += c.byReason[r]
	}
	return sales.ValidationSummary{
		RunID:    uuid.NewString(),
		RunDate:  runDate,
		Input:    c.in,
		Accepted: c.accepted,
		Rejected: rejected,
		ByReason: hist,
		Elapsed:  elapsed,
	}
}
