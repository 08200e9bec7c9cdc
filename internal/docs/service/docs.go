package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/paperloop/paperloop/internal/docs/blob"
	"github.com/paperloop/paperloop/internal/docs/domain"
	"github.com/paperloop/paperloop/internal/docs/store"
	"github.com/paperloop/paperloop/internal/docs/thumb"
	"github.com/paperloop/paperloop/pkg/idx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

var (
	ErrExtensionNotAllowed = errors.New("extension_not_allowed")
	ErrAlreadyDeleted      = errors.New("already_deleted")
	ErrNotOwner            = errors.New("not_owner")
)

// DocService owns document uploads, listings and soft deletion. Blob writes
// happen before the metadata row so a failed upload never leaves a row
// pointing at nothing.
type DocService struct {
	Docs  store.Docs
	Blobs blob.Storage
}

func NewDocService(docs store.Docs, blobs blob.Storage) *DocService {
	return &DocService{Docs: docs, Blobs: blobs}
}

// Upload stores the file and its metadata for userID. Image uploads also get
// a thumbnail; a thumbnail failure never fails the upload.
func (s *DocService) Upload(ctx context.Context, userID, filename string, file io.Reader) (domain.Document, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !domain.ExtensionAllowed(ext) {
		return domain.Document{}, ErrExtensionNotAllowed
	}
	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	doc := domain.Document{
		ID:        idx.New().String(),
		Name:      name,
		Extension: ext,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	doc.Path = doc.ID + ext

	// Images are buffered so the bytes can be read twice, once for the blob
	// and once for the thumbnail. Other types stream straight through.
	var imageData []byte
	if domain.IsImageExtension(ext) {
		data, err := io.ReadAll(file)
		if err != nil {
			return domain.Document{}, fmt.Errorf("doc service: read upload: %w", err)
		}
		imageData = data
		file = bytes.NewReader(data)
	}

	if err := s.Blobs.Put(ctx, doc.Path, file); err != nil {
		return domain.Document{}, fmt.Errorf("doc service: store blob: %w", err)
	}

	if err := s.Docs.CreateDoc(ctx, doc); err != nil {
		// The blob is orphaned otherwise.
		if derr := s.Blobs.Delete(ctx, doc.Path); derr != nil {
			slogx.FromContext(ctx).Warn("orphaned blob cleanup failed", "key", doc.Path, "err", derr)
		}
		return domain.Document{}, fmt.Errorf("doc service: create doc: %w", err)
	}

	if imageData != nil {
		s.attachThumbnail(ctx, &doc, imageData)
	}

	slogx.FromContext(ctx).Info("document uploaded",
		"doc_id", doc.ID,
		"user_id", userID,
		"extension", ext,
	)
	return doc, nil
}

func (s *DocService) attachThumbnail(ctx context.Context, doc *domain.Document, data []byte) {
	log := slogx.FromContext(ctx)

	var buf bytes.Buffer
	if err := thumb.Generate(&buf, bytes.NewReader(data), doc.Extension, thumb.SquareFitSize); err != nil {
		if !errors.Is(err, thumb.ErrNotImage) {
			log.Warn("thumbnail generation failed", "doc_id", doc.ID, "err", err)
		}
		return
	}

	key := doc.ID + "_thumb" + doc.Extension
	if err := s.Blobs.Put(ctx, key, &buf); err != nil {
		log.Warn("thumbnail store failed", "doc_id", doc.ID, "err", err)
		return
	}
	if err := s.Docs.SetThumbnail(ctx, doc.ID, key); err != nil {
		log.Warn("thumbnail record failed", "doc_id", doc.ID, "err", err)
		return
	}
	doc.Thumbnail = key
}

// Get returns document metadata, soft deleted or not.
func (s *DocService) Get(ctx context.Context, id string) (domain.Document, error) {
	return s.Docs.GetDocByID(ctx, id)
}

// Download opens the stored blob for a live document.
func (s *DocService) Download(ctx context.Context, id string) (domain.Document, io.ReadCloser, error) {
	doc, err := s.Docs.GetDocByID(ctx, id)
	if err != nil {
		return domain.Document{}, nil, err
	}
	if doc.Deleted {
		return domain.Document{}, nil, ErrAlreadyDeleted
	}

	rc, err := s.Blobs.Get(ctx, doc.Path)
	if err != nil {
		return domain.Document{}, nil, fmt.Errorf("doc service: open blob: %w", err)
	}
	return doc, rc, nil
}

// List returns a filtered page of documents plus the unpaginated total.
// Deleted documents never appear.
func (s *DocService) List(ctx context.Context, f store.DocFilter) ([]domain.Document, int, error) {
	f.IncludeDeleted = false
	return s.Docs.ListDocs(ctx, f)
}

// Delete soft deletes a document the caller owns. The blob is kept so the
// row can be restored by hand if it ever has to be.
func (s *DocService) Delete(ctx context.Context, id, userID string) error {
	doc, err := s.Docs.GetDocByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.Deleted {
		return ErrAlreadyDeleted
	}
	if doc.UserID != userID {
		return ErrNotOwner
	}

	if err := s.Docs.MarkDeleted(ctx, id); err != nil {
		return fmt.Errorf("doc service: mark deleted: %w", err)
	}

	slogx.FromContext(ctx).Info("document deleted", "doc_id", id, "user_id", userID)
	return nil
}
