// Package catalog provides the schema and rule catalog for the pipeline.
//
// This file adds a lightweight linter/validator for Catalog values. It
// performs static checks over a decoded Catalog and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests. Any
// error-severity issue must stop a run before the first record is processed.
package catalog

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a catalog issue.
type IssueSeverity string

const (
	// SeverityError indicates a catalog error that must block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to users
	// but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Catalog.
//
// Path is a dotted path into the catalog (e.g. "quantity_range",
// "revenue_tiers[1].min"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var knownColumnTypes = map[string]struct{}{
	"string": {}, "int": {}, "float": {}, "date": {},
}

// Validate performs static validation / linting of a Catalog.
//
// It does not mutate the catalog. Instead it returns a slice of Issue values;
// callers decide whether to treat warnings as fatal.
func Validate(c Catalog) []Issue {
	var issues []Issue

	issues = append(issues, validateColumns(c.Columns)...)
	issues = append(issues, validateRanges(c)...)
	issues = append(issues, validateTiers("revenue_tiers", c.RevenueTiers)...)
	issues = append(issues, validateTiers("customer_segments", c.CustomerSegments)...)
	issues = append(issues, validateLookups(c)...)
	issues = append(issues, validateThresholds(c)...)

	return issues
}

// validateColumns checks the declared input schema.
func validateColumns(cols []Column) []Issue {
	var issues []Issue

	if len(cols) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "columns",
			Message:  "at least one column must be declared",
		})
		return issues
	}

	declared := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		path := fmt.Sprintf("columns[%d]", i)
		if strings.TrimSpace(col.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  "column name must not be empty",
			})
			continue
		}
		if _, dup := declared[col.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  fmt.Sprintf("column %q declared more than once", col.Name),
			})
		}
		declared[col.Name] = struct{}{}
		if _, ok := knownColumnTypes[col.Type]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".type",
				Message:  fmt.Sprintf("unknown column type %q (want string, int, float, or date)", col.Type),
			})
		}
	}

	// The seven core columns must all be declared and required; the engines
	// rely on them.
	for _, name := range CoreColumns() {
		if _, ok := declared[name]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "columns",
				Message:  fmt.Sprintf("core column %q is missing from the declared schema", name),
			})
			continue
		}
		required := false
		for _, col := range cols {
			if col.Name == name && col.Required {
				required = true
			}
		}
		if !required {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "columns",
				Message:  fmt.Sprintf("core column %q must be marked required", name),
			})
		}
	}

	return issues
}

// validateRanges checks the business-rule intervals and region whitelist.
func validateRanges(c Catalog) []Issue {
	var issues []Issue

	if c.QuantityRange.Min > c.QuantityRange.Max {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "quantity_range",
			Message:  fmt.Sprintf("min %g exceeds max %g", c.QuantityRange.Min, c.QuantityRange.Max),
		})
	}
	if c.QuantityRange.Min < 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "quantity_range.min",
			Message:  "minimum below 1 admits zero or negative quantities",
		})
	}
	if c.PriceRange.Min > c.PriceRange.Max {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "price_range",
			Message:  fmt.Sprintf("min %g exceeds max %g", c.PriceRange.Min, c.PriceRange.Max),
		})
	}
	if c.PriceRange.Min <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "price_range.min",
			Message:  "minimum at or below zero admits free or negative-priced rows",
		})
	}

	if len(c.Regions) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "regions",
			Message:  "region whitelist must not be empty; every row would be rejected",
		})
	}
	seen := make(map[string]struct{}, len(c.Regions))
	for i, r := range c.Regions {
		if strings.TrimSpace(r) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("regions[%d]", i),
				Message:  "region must not be empty",
			})
		}
		if _, dup := seen[r]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("regions[%d]", i),
				Message:  fmt.Sprintf("region %q listed more than once", r),
			})
		}
		seen[r] = struct{}{}
	}

	return issues
}

// validateTiers checks that a step function is well formed: non-empty,
// uniquely named, strictly ascending minimums, and anchored at zero so every
// non-negative value lands in some bucket.
func validateTiers(path string, tiers []Tier) []Issue {
	var issues []Issue

	if len(tiers) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path,
			Message:  "at least one tier is required",
		})
		return issues
	}
	if tiers[0].Min != 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + "[0].min",
			Message:  "first tier must start at 0 so every value maps to a bucket",
		})
	}
	names := make(map[string]struct{}, len(tiers))
	for i, t := range tiers {
		if strings.TrimSpace(t.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("%s[%d].name", path, i),
				Message:  "tier name must not be empty",
			})
		}
		if _, dup := names[t.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("%s[%d].name", path, i),
				Message:  fmt.Sprintf("tier %q declared more than once", t.Name),
			})
		}
		names[t.Name] = struct{}{}
		if i > 0 && tiers[i].Min <= tiers[i-1].Min {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("%s[%d].min", path, i),
				Message:  fmt.Sprintf("tier minimums must be strictly ascending (%g after %g)", tiers[i].Min, tiers[i-1].Min),
			})
		}
	}

	return issues
}

// validateLookups checks the product category table.
func validateLookups(c Catalog) []Issue {
	var issues []Issue

	if len(c.ProductCategories) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "product_categories",
			Message:  "empty lookup table; every product will fall back to " + OtherCategory,
		})
	}
	for product, category := range c.ProductCategories {
		if strings.TrimSpace(category) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "product_categories." + product,
				Message:  "category must not be empty",
			})
		}
	}

	return issues
}

// validateThresholds checks the indicator constants.
func validateThresholds(c Catalog) []Issue {
	var issues []Issue

	if c.HighValuePercentile <= 0 || c.HighValuePercentile > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "high_value_percentile",
			Message:  fmt.Sprintf("must be in (0, 1], got %g", c.HighValuePercentile),
		})
	}
	if c.BulkQuantity < 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "bulk_quantity",
			Message:  fmt.Sprintf("must be at least 1, got %d", c.BulkQuantity),
		})
	}

	return issues
}
