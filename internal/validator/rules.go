package validator

import (
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"salespipe/internal/catalog"
	"salespipe/pkg/records"
)

// rowState carries one row through the rule sequence. Rules parse values at
// most once and stash the results here; the seen set persists across rows of
// the same Validate call to power the duplicate check.
type rowState struct {
	rec records.Record

	id       string
	region   string
	quantity int
	price    float64
	date     time.Time

	quantityOK bool
	priceOK    bool

	seen map[uint64]struct{}
}

// reset rebinds the state to the next row, keeping the seen set.
func (st *rowState) reset(rec records.Record) {
	seen := st.seen
	*st = rowState{rec: rec, seen: seen}
}

// field returns the trimmed string value of a column.
func (st *rowState) field(name string) string {
	return strings.TrimSpace(st.rec.String(name))
}

// checkSchema verifies that every required column is present in the row and
// that non-empty values of typed columns parse to their declared type.
// Emptiness is deliberately left to the null check so an absent value and an
// unparseable value report different reasons; date validity is left to the
// date rule, which owns its own reason code.
func (e *Engine) checkSchema(st *rowState) bool {
	for _, name := range e.required {
		if !st.rec.Has(name) {
			return false
		}
	}
	for _, tc := range e.typed {
		s := st.field(tc.name)
		if s == "" {
			continue
		}
		switch tc.kind {
		case "int":
			n, err := strconv.Atoi(s)
			if err != nil {
				return false
			}
			if tc.name == catalog.ColQuantity {
				st.quantity, st.quantityOK = n, true
			}
		case "float":
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return false
			}
			if tc.name == catalog.ColPrice {
				st.price, st.priceOK = f, true
			}
		}
	}
	return true
}

// checkNull rejects rows where any required field is empty after trimming.
func (e *Engine) checkNull(st *rowState) bool {
	for _, name := range e.required {
		if st.field(name) == "" {
			return false
		}
	}
	return true
}

// checkDuplicate rejects rows whose transaction id was seen earlier in the
// same input. Ids are recorded when they reach this check, so the first
// occurrence always claims the id even if a later rule rejects that row.
// The set stores 64-bit hashes rather than the ids themselves, which keeps
// it compact for day-sized inputs.
func (e *Engine) checkDuplicate(st *rowState) bool {
	st.id = st.field(catalog.ColTransactionID)
	h := xxh3.HashString(st.id)
	if _, dup := st.seen[h]; dup {
		return false
	}
	st.seen[h] = struct{}{}
	return true
}

// checkQuantity enforces the catalog's closed quantity range.
func (e *Engine) checkQuantity(st *rowState) bool {
	return st.quantityOK && e.cat.QuantityRange.Contains(float64(st.quantity))
}

// checkPrice enforces the catalog's closed price range.
func (e *Engine) checkPrice(st *rowState) bool {
	return st.priceOK && e.cat.PriceRange.Contains(st.price)
}

// checkRegion enforces the region whitelist.
func (e *Engine) checkRegion(st *rowState) bool {
	st.region = st.field(catalog.ColRegion)
	_, ok := e.regions[st.region]
	return ok
}

// checkDate requires a parseable calendar date that is not after the run
// date.
func (e *Engine) checkDate(st *rowState) bool {
	d, err := time.Parse(catalog.DateLayout, st.field(catalog.ColDate))
	if err != nil {
		return false
	}
	if d.After(e.runDate) {
		return false
	}
	st.date = d
	return true
}
