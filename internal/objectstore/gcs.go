package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// GCS is a Store backed by a Google Cloud Storage bucket. Objects are named
// "<zone>/<key>". It assumes Application Default Credentials are configured.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a GCS store for the given bucket.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}

func (g *GCS) object(zone Zone, key string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(string(zone) + "/" + key)
}

// Open implements Store.
func (g *GCS) Open(ctx context.Context, zone Zone, key string) (io.ReadCloser, error) {
	r, err := g.object(zone, key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s/%s: %w", g.bucket, zone, key, err)
	}
	return r, nil
}

// Write implements Store. GCS object writes are already all-or-nothing: the
// object only becomes visible once the writer closes cleanly.
func (g *GCS) Write(ctx context.Context, zone Zone, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.object(zone, key).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s/%s: %w", g.bucket, zone, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs://%s/%s/%s: %w", g.bucket, zone, key, err)
	}
	return nil
}
