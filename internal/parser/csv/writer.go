package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Encode renders a header plus rows as CSV bytes, ready to be written to an
// object store in one call. Outputs are produced whole or not at all, so the
// encoder buffers rather than streams.
func Encode(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv write header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("csv row %d: %d fields, header has %d", i+2, len(row), len(header))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv write row %d: %w", i+2, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
