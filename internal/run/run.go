// Package run wires the pipeline stages into the two daily jobs: the
// validator run (raw zone to processed zone) and the transformer run
// (processed zone to aggregates zone and, optionally, the warehouse).
//
// Each run is all-or-nothing per zone: outputs are assembled in memory and
// written only after the stage engine has finished cleanly, so a failed run
// never leaves a partial file behind.
package run

import (
	"errors"
	"fmt"
	"time"

	"salespipe/internal/catalog"
)

// ErrEmptyInput marks a source file that parsed cleanly but contained no data
// rows. The jobs treat this as a hard failure so a truncated upstream export
// cannot silently publish an empty day.
var ErrEmptyInput = errors.New("input has no data rows")

// Job names used for logging and metrics labels.
const (
	JobValidator   = "validator"
	JobTransformer = "transformer"
)

// ParseDate parses a run date in the canonical YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(catalog.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid run date %q: %w", s, err)
	}
	return d, nil
}

// delimiter resolves the catalog's configured field separator.
func delimiter(c catalog.Catalog) rune {
	if c.Delimiter == "" {
		return ','
	}
	return []rune(c.Delimiter)[0]
}
