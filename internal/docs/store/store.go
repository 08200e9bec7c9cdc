package store

import (
	"context"
	"errors"

	"github.com/paperloop/paperloop/internal/docs/domain"
)

var ErrNotFound = errors.New("store: not found")

// DocFilter narrows and orders document listings. Filter fields are
// exact-match; empty values are ignored. Order entries are column names with
// an optional "-" prefix for descending.
type DocFilter struct {
	Extension string
	UserID    string

	// IncludeDeleted lifts the default deleted=false filter; only the
	// delete path uses it.
	IncludeDeleted bool

	Order  []string
	Limit  int
	Offset int
}

// Store is the root data access interface for the docs service.
type Store interface {
	Docs() Docs

	ApplyMigrations() error
	Close() error
	Ping(ctx context.Context) error
}

type Docs interface {
	// CreateDoc inserts a new document (id provided by the caller via ULID).
	CreateDoc(ctx context.Context, d domain.Document) error

	// GetDocByID returns a document whether or not it is soft deleted.
	GetDocByID(ctx context.Context, id string) (domain.Document, error)

	// SetThumbnail records the thumbnail key after the blob is written.
	SetThumbnail(ctx context.Context, id, thumbnail string) error

	// MarkDeleted soft deletes; the row and the blob stay.
	MarkDeleted(ctx context.Context, id string) error

	// ListDocs returns a filtered page plus the unpaginated total.
	ListDocs(ctx context.Context, f DocFilter) ([]domain.Document, int, error)
}
