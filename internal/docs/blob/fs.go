package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStorage keeps blobs under a directory on the local disk. Default in dev;
// production deployments use S3.
type FSStorage struct {
	root string
}

func NewFS(root string) (*FSStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create root %s: %w", root, err)
	}
	return &FSStorage{root: root}, nil
}

// path maps a key to a file below root. Keys are service-generated, never
// client input, so traversal is not a concern; Clean keeps things tidy
// anyway.
func (s *FSStorage) path(key string) string {
	return filepath.Join(s.root, filepath.Clean(key))
}

func (s *FSStorage) Put(_ context.Context, key string, r io.Reader) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return fmt.Errorf("blob: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("blob: write %s: %w", key, err)
	}
	return f.Close()
}

func (s *FSStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("blob: open %s: %w", key, err)
	}
	return f, nil
}

func (s *FSStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob: remove %s: %w", key, err)
	}
	return nil
}
