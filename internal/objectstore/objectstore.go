// Package objectstore abstracts the zoned object layout the pipeline reads
// and writes: raw feeds land in the raw zone, the validator publishes cleaned
// and rejected files to the processed zone, and the transformer publishes
// enriched files to the aggregates zone.
//
// Two implementations are provided: Local for a directory tree on disk and
// GCS for a Google Cloud Storage bucket. Both address objects as
// "<zone>/<key>".
package objectstore

import (
	"context"
	"io"
)

// Zone names one tier of the pipeline's storage layout.
type Zone string

const (
	ZoneRaw        Zone = "raw-zone"
	ZoneProcessed  Zone = "processed-zone"
	ZoneAggregates Zone = "aggregates-zone"
)

// Key builds the object name for a run date, e.g. Key("2025-03-14", ".csv")
// yields "2025-03-14.csv".
func Key(date, suffix string) string {
	return date + suffix
}

// Store is the minimal object-store interface the pipeline needs. Writes are
// whole-object: callers assemble the full payload first, so a failed run never
// leaves a partial output behind.
type Store interface {
	// Open returns a reader for an existing object. The caller closes it.
	Open(ctx context.Context, zone Zone, key string) (io.ReadCloser, error)
	// Write stores data as the full content of the object, replacing any
	// previous version.
	Write(ctx context.Context, zone Zone, key string, data []byte) error
}
