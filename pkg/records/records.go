// Package records defines the raw row representation shared by the CSV
// parser, the validation engine, and the output writers.
package records

import "fmt"

// Record is a single raw row keyed by canonical column name. Values are the
// strings read from the source file; a nil value marks a column that was
// absent from the row.
type Record map[string]any

// Has reports whether the record carries a non-nil value for key.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the value for key as a string. Missing keys and nil values
// yield "". Non-string values (rare; only introduced by tests or upstream
// coercion) fall back to fmt.Sprint.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
