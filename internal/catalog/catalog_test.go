package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.json")
		payload := `{
			"columns": [
				{ "name": "transaction_id", "type": "string", "required": true }
			],
			"quantity_range": { "min": 1, "max": 500 },
			"price_range": { "min": 0.01, "max": 9999 },
			"regions": ["North"],
			"revenue_tiers": [ { "name": "Low", "min": 0 } ],
			"customer_segments": [ { "name": "Bronze", "min": 0 } ],
			"product_categories": { "Laptop": "Computing" },
			"high_value_percentile": 0.9,
			"bulk_quantity": 10
		}`
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatal(err)
		}

		c, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if c.QuantityRange != (Range{Min: 1, Max: 500}) {
			t.Fatalf("QuantityRange = %+v", c.QuantityRange)
		}
		if !reflect.DeepEqual(c.Regions, []string{"North"}) {
			t.Fatalf("Regions = %v", c.Regions)
		}
		if c.HighValuePercentile != 0.9 || c.BulkQuantity != 10 {
			t.Fatalf("thresholds = %v / %d", c.HighValuePercentile, c.BulkQuantity)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte(`{"columnz": []}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("Load() accepted a catalog with an unknown field")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.json")); err == nil {
			t.Fatal("Load() did not report the missing file")
		}
	})
}

func TestBucketFor(t *testing.T) {
	tiers := []Tier{
		{Name: "Low", Min: 0},
		{Name: "Medium", Min: 100},
		{Name: "High", Min: 500},
	}

	tests := []struct {
		v    float64
		want string
	}{
		{0, "Low"},
		{99.99, "Low"},
		{100, "Medium"}, // boundary maps to the higher bucket
		{499.99, "Medium"},
		{500, "High"},
		{-5, "Low"}, // below the anchor falls into the first tier
	}
	for _, tt := range tests {
		if got := BucketFor(tt.v, tiers); got != tt.want {
			t.Fatalf("BucketFor(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}

	if got := BucketFor(10, nil); got != "" {
		t.Fatalf("BucketFor with no tiers = %q, want empty", got)
	}
}

func TestCategoryFor(t *testing.T) {
	c := Default()
	if got := c.CategoryFor("Laptop"); got != "Computing" {
		t.Fatalf("CategoryFor(Laptop) = %q", got)
	}
	if got := c.CategoryFor("Flux Capacitor"); got != OtherCategory {
		t.Fatalf("CategoryFor(unmapped) = %q, want %q", got, OtherCategory)
	}
}

func TestValidateDefaultCatalog(t *testing.T) {
	issues := Validate(Default())
	if HasErrors(issues) {
		t.Fatalf("default catalog has errors: %v", issues)
	}
}

func TestValidateIssues(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Catalog)
		path     string
		severity IssueSeverity
	}{
		{
			name:     "missing core column",
			mutate:   func(c *Catalog) { c.Columns = c.Columns[1:] },
			path:     "columns",
			severity: SeverityError,
		},
		{
			name: "core column not required",
			mutate: func(c *Catalog) {
				c.Columns[0].Required = false
			},
			path:     "columns",
			severity: SeverityError,
		},
		{
			name:     "unknown column type",
			mutate:   func(c *Catalog) { c.Columns[4].Type = "number" },
			path:     "columns[4].type",
			severity: SeverityError,
		},
		{
			name:     "inverted quantity range",
			mutate:   func(c *Catalog) { c.QuantityRange = Range{Min: 10, Max: 1} },
			path:     "quantity_range",
			severity: SeverityError,
		},
		{
			name:     "empty region whitelist",
			mutate:   func(c *Catalog) { c.Regions = nil },
			path:     "regions",
			severity: SeverityError,
		},
		{
			name:     "duplicate region",
			mutate:   func(c *Catalog) { c.Regions = append(c.Regions, "North") },
			path:     "regions[5]",
			severity: SeverityWarning,
		},
		{
			name:     "tier not anchored at zero",
			mutate:   func(c *Catalog) { c.RevenueTiers[0].Min = 50 },
			path:     "revenue_tiers[0].min",
			severity: SeverityError,
		},
		{
			name:     "non-ascending tiers",
			mutate:   func(c *Catalog) { c.RevenueTiers[2].Min = c.RevenueTiers[1].Min },
			path:     "revenue_tiers[2].min",
			severity: SeverityError,
		},
		{
			name:     "percentile out of range",
			mutate:   func(c *Catalog) { c.HighValuePercentile = 1.5 },
			path:     "high_value_percentile",
			severity: SeverityError,
		},
		{
			name:     "bulk threshold below one",
			mutate:   func(c *Catalog) { c.BulkQuantity = 0 },
			path:     "bulk_quantity",
			severity: SeverityError,
		},
		{
			name:     "empty category table",
			mutate:   func(c *Catalog) { c.ProductCategories = nil },
			path:     "product_categories",
			severity: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)

			issues := Validate(c)
			for _, iss := range issues {
				if iss.Path == tt.path && iss.Severity == tt.severity {
					return
				}
			}
			t.Fatalf("no %s issue at %q; got %v", tt.severity, tt.path, issues)
		})
	}
}

func TestRequiredAndTypedHelpers(t *testing.T) {
	c := Default()

	req := c.RequiredColumns()
	if !reflect.DeepEqual(req, CoreColumns()) {
		t.Fatalf("RequiredColumns() = %v", req)
	}
	if got := c.ColumnType(ColQuantity); got != "int" {
		t.Fatalf("ColumnType(quantity) = %q", got)
	}
	if got := c.ColumnType("nope"); got != "" {
		t.Fatalf("ColumnType(nope) = %q, want empty", got)
	}
	if _, ok := c.RegionSet()["West"]; !ok {
		t.Fatal("RegionSet() is missing West")
	}
}
