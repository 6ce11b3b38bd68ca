package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local is a Store backed by a directory tree. Each zone is a subdirectory of
// the root; objects are plain files.
type Local struct {
	root string
}

// NewLocal returns a Local store rooted at dir. The directory does not need
// to exist yet; zone directories are created on first write.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

func (l *Local) path(zone Zone, key string) string {
	return filepath.Join(l.root, string(zone), key)
}

// Open implements Store.
func (l *Local) Open(ctx context.Context, zone Zone, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path(zone, key))
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", zone, key, err)
	}
	return f, nil
}

// Write implements Store. The zone directory is created if missing and the
// object is replaced atomically via a rename.
func (l *Local) Write(ctx context.Context, zone Zone, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Join(l.root, string(zone))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create zone dir %s: %w", zone, err)
	}

	tmp, err := os.CreateTemp(dir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s/%s: %w", zone, key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s/%s: %w", zone, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s/%s: %w", zone, key, err)
	}
	if err := os.Rename(tmp.Name(), l.path(zone, key)); err != nil {
		return fmt.Errorf("publish %s/%s: %w", zone, key, err)
	}
	return nil
}
