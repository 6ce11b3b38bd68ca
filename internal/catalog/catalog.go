// Package catalog defines the canonical, JSON-serializable schema and rule
// catalog for the sales pipeline. It is intentionally small, explicit, and
// dependency-free so that a catalog can be loaded from disk (or another
// source) and handed to both engines without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in catalog
//     files under configs/*.json.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, and the value is immutable once loaded.
//
// Example (trimmed):
//
//	{
//	  "columns":  [ { "name": "transaction_id", "type": "string", "required": true }, ... ],
//	  "quantity_range": { "min": 1, "max": 1000 },
//	  "regions":  ["North", "South", "East", "West", "Central"],
//	  "revenue_tiers": [ { "name": "Low", "min": 0 }, { "name": "Medium", "min": 100 }, ... ]
//	}
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Core column names every daily sales file must carry. Additional columns are
// passed through untouched.
const (
	ColTransactionID = "transaction_id"
	ColDate          = "transaction_date"
	ColRegion        = "region"
	ColProduct       = "product"
	ColQuantity      = "quantity"
	ColPrice         = "price"
	ColCustomerID    = "customer_id"
)

// CoreColumns returns the seven mandatory columns in canonical order.
func CoreColumns() []string {
	return []string{
		ColTransactionID, ColDate, ColRegion, ColProduct,
		ColQuantity, ColPrice, ColCustomerID,
	}
}

// DateLayout is the wire format for transaction dates and for object keys.
const DateLayout = "2006-01-02"

// Column declares one expected input column.
type Column struct {
	Name string `json:"name"`

	// Type is one of "string", "int", "float", "date".
	Type string `json:"type"`

	// Required columns must be present in the header and non-empty per row.
	Required bool `json:"required"`
}

// Range is a closed numeric interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Tier is one bucket of a step function. A value belongs to the last tier
// whose Min it reaches, so buckets are half-open intervals [Min, next.Min)
// and a value exactly on a boundary maps to the higher bucket.
type Tier struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
}

// Warehouse carries the optional relational load target for enriched rows.
// The DSN is deliberately not part of the catalog; it arrives via flag or
// environment so credentials never land in a config file.
type Warehouse struct {
	Table string `json:"table,omitempty"`
}

// Catalog is the full rule catalog injected into both engines. Treat loaded
// values as immutable; the engines never write to it.
type Catalog struct {
	// Columns lists the expected input schema. Unknown input columns are
	// passed through; missing required columns reject the row.
	Columns []Column `json:"columns"`

	// HeaderMap maps raw source headers to canonical column names, for feeds
	// whose headers drifted from the canonical form.
	HeaderMap map[string]string `json:"header_map,omitempty"`

	// Delimiter is the field separator of the source file. Empty means ','.
	Delimiter string `json:"delimiter,omitempty"`

	QuantityRange Range    `json:"quantity_range"`
	PriceRange    Range    `json:"price_range"`
	Regions       []string `json:"regions"`

	// RevenueTiers and CustomerSegments are ascending step functions over a
	// transaction's revenue and a customer's run-lifetime revenue.
	RevenueTiers     []Tier `json:"revenue_tiers"`
	CustomerSegments []Tier `json:"customer_segments"`

	// ProductCategories maps product names to categories; unmapped products
	// fall back to "Other".
	ProductCategories map[string]string `json:"product_categories"`

	// HighValuePercentile marks a transaction high-value when its price
	// percentile within the run reaches this value (0.9 = top decile).
	HighValuePercentile float64 `json:"high_value_percentile"`

	// BulkQuantity flags a bulk purchase when quantity strictly exceeds it.
	BulkQuantity int `json:"bulk_quantity"`

	Warehouse Warehouse `json:"warehouse,omitempty"`
}

// OtherCategory is the fallback for products missing from the lookup table.
const OtherCategory = "Other"

// Load reads and decodes a catalog file. It performs no semantic checks;
// callers should run Validate and refuse to start on error-severity issues.
func Load(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	var c Catalog
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return c, nil
}

// RegionSet returns the whitelist as a set for O(1) membership checks.
func (c Catalog) RegionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Regions))
	for _, r := range c.Regions {
		set[r] = struct{}{}
	}
	return set
}

// RequiredColumns returns the names of all required columns in declaration
// order.
func (c Catalog) RequiredColumns() []string {
	out := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		if col.Required {
			out = append(out, col.Name)
		}
	}
	return out
}

// ColumnType returns the declared type for name, or "" when the column is
// not part of the declared schema.
func (c Catalog) ColumnType(name string) string {
	for _, col := range c.Columns {
		if col.Name == name {
			return col.Type
		}
	}
	return ""
}

// CategoryFor looks up the product category, falling back to OtherCategory
// for unmapped products.
func (c Catalog) CategoryFor(product string) string {
	if cat, ok := c.ProductCategories[product]; ok {
		return cat
	}
	return OtherCategory
}

// BucketFor resolves v against an ascending tier list: the result is the
// last tier whose Min is reached. Values below the first tier's Min land in
// the first tier (in practice the first Min is zero).
func BucketFor(v float64, tiers []Tier) string {
	if len(tiers) == 0 {
		return ""
	}
	name := tiers[0].Name
	for _, t := range tiers {
		if v >= t.Min {
			name = t.Name
		} else {
			break
		}
	}
	return name
}

// Default returns the production catalog the daily feed ships with. It is
// primarily a convenience for tests and for bootstrapping a config file; real
// runs load the catalog from disk so thresholds can change without a deploy.
func Default() Catalog {
	return Catalog{
		Columns: []Column{
			{Name: ColTransactionID, Type: "string", Required: true},
			{Name: ColDate, Type: "date", Required: true},
			{Name: ColRegion, Type: "string", Required: true},
			{Name: ColProduct, Type: "string", Required: true},
			{Name: ColQuantity, Type: "int", Required: true},
			{Name: ColPrice, Type: "float", Required: true},
			{Name: ColCustomerID, Type: "string", Required: true},
		},
		QuantityRange: Range{Min: 1, Max: 1000},
		PriceRange:    Range{Min: 0.01, Max: 100000.00},
		Regions:       []string{"North", "South", "East", "West", "Central"},
		RevenueTiers: []Tier{
			{Name: "Low", Min: 0},
			{Name: "Medium", Min: 100},
			{Name: "High", Min: 500},
			{Name: "Premium", Min: 2000},
		},
		CustomerSegments: []Tier{
			{Name: "Bronze", Min: 0},
			{Name: "Silver", Min: 500},
			{Name: "Gold", Min: 2000},
			{Name: "Platinum", Min: 5000},
		},
		ProductCategories: map[string]string{
			"Laptop":   "Computing",
			"Desktop":  "Computing",
			"Monitor":  "Peripherals",
			"Keyboard": "Peripherals",
			"Mouse":    "Peripherals",
			"Headset":  "Audio",
			"Webcam":   "Video",
			"Router":   "Networking",
			"Switch":   "Networking",
			"Cable":    "Accessories",
		},
		HighValuePercentile: 0.9,
		BulkQuantity:        10,
		Warehouse:           Warehouse{Table: "sales.enriched_transactions"},
	}
}
