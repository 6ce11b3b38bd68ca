// Package csv parses daily sales feeds into raw records and writes the
// pipeline's tabular outputs. Parsing tolerates real-world feed quirks
// (UTF-8 BOM, header drift handled via a header map, stray whitespace)
// without buffering more than the day's rows.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"salespipe/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures parsing. All fields are optional; sensible defaults are
// applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical column names, for
	// feeds whose headers drifted from the canonical form. Applied after
	// BOM stripping and trimming.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes the full input and returns the canonical header and one
// record per data row. Rows narrower than the header omit their missing
// trailing columns from the record entirely, so Record.Has reports them
// absent; rows wider than the header are an error, since silently dropping
// values would corrupt the partition accounting downstream.
func (p *Parser) Parse(r io.Reader) (header []string, rows []records.Record, err error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = p.opt.TrimSpace

	h, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("read csv header: file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	header = p.canonicalHeader(h)

	for {
		raw, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv read: %w", err)
		}
		if len(raw) > len(header) {
			return nil, nil, fmt.Errorf("csv row %d: %d fields, header has %d", len(rows)+2, len(raw), len(header))
		}

		rec := make(records.Record, len(header))
		for i, name := range header {
			if i >= len(raw) {
				continue
			}
			v := raw[i]
			if p.opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			rec[name] = v
		}
		rows = append(rows, rec)
	}

	return header, rows, nil
}

// canonicalHeader strips the BOM, trims cells, and applies the header map.
func (p *Parser) canonicalHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, cell := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(cell, utf8BOM))
		if mapped, ok := p.opt.HeaderMap[name]; ok && mapped != "" {
			name = mapped
		}
		out[i] = name
	}
	return out
}

// Passthrough returns the header columns that are not part of core, in
// header order.
func Passthrough(header, core []string) []string {
	coreSet := make(map[string]struct{}, len(core))
	for _, c := range core {
		coreSet[c] = struct{}{}
	}
	var out []string
	for _, name := range header {
		if _, ok := coreSet[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
