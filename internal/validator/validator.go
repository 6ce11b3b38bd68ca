// Package validator implements stage one of the pipeline: the record
// validation rule engine. It partitions raw rows into accepted transactions
// and rejections with a single reason each, and produces the run's
// validation summary.
//
// Checks run per record in a fixed precedence (schema, null, duplicate, then
// the business rules), stopping at the first failure so results are
// deterministic and every rejection carries exactly one reason. The rules are
// held as an ordered slice of independent predicate+reason pairs; adding or
// removing a rule never touches its neighbours.
package validator

import (
	"time"

	"salespipe/internal/catalog"
	"salespipe/internal/sales"
	"salespipe/pkg/records"
)

// Engine validates raw rows against a rule catalog. It is safe to reuse
// across runs of the same date; Validate carries no state between calls.
type Engine struct {
	cat     catalog.Catalog
	runDate time.Time

	regions  map[string]struct{}
	required []string
	typed    []typedColumn

	rules []rule
}

// typedColumn is a declared column whose values need a parse check.
type typedColumn struct {
	name string
	kind string // "int" | "float" | "date"
}

// rule pairs a rejection reason with its predicate. Predicates may stash
// parsed values on the rowState for later rules and for the final
// transaction build.
type rule struct {
	reason sales.Reason
	check  func(*Engine, *rowState) bool
}

// NewEngine builds a validation engine for one run date. The catalog must
// already have passed catalog.Validate; the engine trusts it.
//
// The future-date check compares against runDate, not the wall clock, so a
// backfill judges its rows relative to the day being processed.
func NewEngine(cat catalog.Catalog, runDate time.Time) *Engine {
	e := &Engine{
		cat:      cat,
		runDate:  runDate.Truncate(24 * time.Hour),
		regions:  cat.RegionSet(),
		required: cat.RequiredColumns(),
	}
	for _, col := range cat.Columns {
		switch col.Type {
		case "int", "float":
			e.typed = append(e.typed, typedColumn{name: col.Name, kind: col.Type})
		}
	}
	e.rules = []rule{
		{sales.ReasonSchema, (*Engine).checkSchema},
		{sales.ReasonNull, (*Engine).checkNull},
		{sales.ReasonDuplicate, (*Engine).checkDuplicate},
		{sales.ReasonQuantity, (*Engine).checkQuantity},
		{sales.ReasonPrice, (*Engine).checkPrice},
		{sales.ReasonRegion, (*Engine).checkRegion},
		{sales.ReasonDate, (*Engine).checkDate},
	}
	return e
}

// Validate partitions recs into accepted transactions and rejections, in
// input order, and returns the run summary. passthrough lists the non-core
// columns of the source header in order; their values survive onto accepted
// transactions untouched.
//
// Every input row lands in exactly one of the two outputs:
// len(accepted) + len(rejected) == len(recs).
func (e *Engine) Validate(recs []records.Record, passthrough []string) ([]sales.Transaction, []sales.Rejection, sales.ValidationSummary) {
	start := time.Now()

	accepted := make([]sales.Transaction, 0, len(recs))
	rejected := make([]sales.Rejection, 0)
	col := newCollector()

	st := &rowState{seen: make(map[uint64]struct{}, len(recs))}

	for i, rec := range recs {
		col.input()
		st.reset(rec)

		reason, ok := e.applyRules(st)
		if !ok {
			col.reject(reason)
			rejected = append(rejected, sales.Rejection{
				// Header occupies line 1 of the source file.
				Line:   i + 2,
				Reason: reason,
				Raw:    rawValues(rec),
			})
			continue
		}

		col.accept()
		accepted = append(accepted, e.buildTransaction(st, passthrough))
	}

	summary := col.summary(e.runDate, time.Since(start))
	return accepted, rejected, summary
}

// applyRules evaluates the ordered rule list, returning the first failing
// rule's reason.
func (e *Engine) applyRules(st *rowState) (sales.Reason, bool) {
	for _, r := range e.rules {
		if !r.check(e, st) {
			return r.reason, false
		}
	}
	return "", true
}

// buildTransaction assembles the accepted record from the parsed row state.
func (e *Engine) buildTransaction(st *rowState, passthrough []string) sales.Transaction {
	tx := sales.Transaction{
		ID:       st.id,
		Date:     st.date,
		Region:   st.region,
		Product:  st.field(catalog.ColProduct),
		Quantity: st.quantity,
		Price:    st.price,
		Customer: st.field(catalog.ColCustomerID),
	}
	if len(passthrough) > 0 {
		tx.Attrs = make(map[string]string, len(passthrough))
		tx.AttrOrder = passthrough
		for _, name := range passthrough {
			tx.Attrs[name] = st.field(name)
		}
	}
	return tx
}

// rawValues snapshots a record's string values for the rejection log.
func rawValues(rec records.Record) map[string]string {
	out := make(map[string]string, len(rec))
	for k := range rec {
		out[k] = rec.String(k)
	}
	return out
}
