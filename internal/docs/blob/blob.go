// Package blob stores document bytes. Metadata lives in the docs store;
// everything here is keyed opaque content.
package blob

import (
	"context"
	"io"
)

// Storage reads and writes blobs by key. Keys are generated by the service
// layer from the document id and extension.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
