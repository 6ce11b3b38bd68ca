// Package sales holds the domain types flowing through the two pipeline
// stages: raw transactions, rejections, the validation summary, enriched
// transactions, and the enrichment run report.
package sales

import "time"

// Reason is a row-level rejection code. The set is closed; the validator
// never invents new codes at runtime.
type Reason string

const (
	ReasonSchema    Reason = "schema_error"
	ReasonNull      Reason = "null_value"
	ReasonDuplicate Reason = "duplicate"
	ReasonQuantity  Reason = "invalid_quantity"
	ReasonPrice     Reason = "invalid_price"
	ReasonRegion    Reason = "invalid_region"
	ReasonDate      Reason = "invalid_date"
)

// Reasons returns the closed reason set in a stable order, used for summary
// histograms and metrics labels.
func Reasons() []Reason {
	return []Reason{
		ReasonSchema, ReasonNull, ReasonDuplicate,
		ReasonQuantity, ReasonPrice, ReasonRegion, ReasonDate,
	}
}

// Transaction is one accepted sales record. Attrs carries passthrough
// columns that are not part of the core schema; AttrOrder preserves their
// source column order so output files stay stable.
type Transaction struct {
	ID       string
	Date     time.Time
	Region   string
	Product  string
	Quantity int
	Price    float64
	Customer string

	Attrs     map[string]string
	AttrOrder []string
}

// Rejection references one dropped input row. Line is the 1-based data row
// number (the header is line 1, so data starts at 2). Raw holds the offending
// row's values by column for the rejection log.
type Rejection struct {
	Line   int
	Reason Reason
	Raw    map[string]string
}

// ValidationSummary aggregates one validation run. It is built once by the
// validator's collector and never mutated afterwards.
type ValidationSummary struct {
	RunID   string
	RunDate time.Time

	Input    int
	Accepted int
	Rejected int
	ByReason map[Reason]int

	Elapsed time.Duration
}

// RejectionRate returns rejected/input, or 0 for an empty run.
func (s ValidationSummary) RejectionRate() float64 {
	if s.Input == 0 {
		return 0
	}
	return float64(s.Rejected) / float64(s.Input)
}

// Enriched is a Transaction plus every derived column. All derived fields
// are pure functions of the transaction and, for the aggregate-based ones,
// of the full accepted set of the current run.
type Enriched struct {
	Transaction

	Revenue float64

	Year          int
	Month         int
	Day           int
	MonthName     string
	DayName       string
	DayOfWeek     int // 0=Monday … 6=Sunday
	Quarter       int
	WeekOfYear    int // ISO week
	IsWeekend     bool
	IsBusinessDay bool

	RevenueTier     string
	ProductCategory string
	CustomerSegment string

	PricePercentile    float64
	IsHighValue        bool
	IsBulkOrder        bool
	QuantityPercentile float64

	RegionRevenue    float64
	RegionRank       int
	RegionAvgRevenue float64
	AboveRegionAvg   bool
}

// RunReport summarizes one enrichment run.
type RunReport struct {
	RunID   string
	RunDate time.Time

	Rows          int
	ColumnsBefore int
	ColumnsAfter  int

	TotalRevenue   float64
	AverageRevenue float64

	Elapsed time.Duration
}
