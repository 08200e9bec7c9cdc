package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/paperloop/paperloop/internal/docs/domain"
	"github.com/paperloop/paperloop/internal/docs/store"
	"github.com/stretchr/testify/require"
)

type fakeDocs struct {
	mu   sync.Mutex
	docs map[string]domain.Document
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: make(map[string]domain.Document)}
}

func (f *fakeDocs) CreateDoc(_ context.Context, d domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[d.ID] = d
	return nil
}

func (f *fakeDocs) GetDocByID(_ context.Context, id string) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return domain.Document{}, store.ErrNotFound
	}
	return d, nil
}

func (f *fakeDocs) SetThumbnail(_ context.Context, id, thumbnail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	d.Thumbnail = thumbnail
	f.docs[id] = d
	return nil
}

func (f *fakeDocs) MarkDeleted(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	d.Deleted = true
	f.docs[id] = d
	return nil
}

func (f *fakeDocs) ListDocs(_ context.Context, filter store.DocFilter) ([]domain.Document, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Document
	for _, d := range f.docs {
		if !filter.IncludeDeleted && d.Deleted {
			continue
		}
		if filter.Extension != "" && d.Extension != filter.Extension {
			continue
		}
		out = append(out, d)
	}
	return out, len(out), nil
}

type memBlob struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlob() *memBlob {
	return &memBlob{blobs: make(map[string][]byte)}
}

func (m *memBlob) Put(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return nil
}

func (m *memBlob) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	data, ok := m.blobs[key]
	m.mu.Unlock()
	if !ok {
		return nil, errors.New("no such blob")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlob) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.blobs, key)
	m.mu.Unlock()
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDocService_Upload(t *testing.T) {
	t.Parallel()

	docs := newFakeDocs()
	blobs := newMemBlob()
	svc := NewDocService(docs, blobs)
	ctx := context.Background()

	t.Run("plain document", func(t *testing.T) {
		doc, err := svc.Upload(ctx, "user-1", "report.pdf", strings.NewReader("%PDF-1.4"))
		require.NoError(t, err)
		require.Equal(t, "report", doc.Name)
		require.Equal(t, ".pdf", doc.Extension)
		require.Equal(t, doc.ID+".pdf", doc.Path)
		require.Empty(t, doc.Thumbnail)
		require.Contains(t, blobs.blobs, doc.Path)
	})

	t.Run("uppercase extension", func(t *testing.T) {
		doc, err := svc.Upload(ctx, "user-1", "photo.JPG", strings.NewReader("fake"))
		require.NoError(t, err)
		require.Equal(t, ".jpg", doc.Extension)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		_, err := svc.Upload(ctx, "user-1", "run.exe", strings.NewReader("MZ"))
		require.ErrorIs(t, err, ErrExtensionNotAllowed)
	})

	t.Run("image gets a thumbnail", func(t *testing.T) {
		doc, err := svc.Upload(ctx, "user-1", "big.png", bytes.NewReader(pngBytes(t, 400, 200)))
		require.NoError(t, err)
		require.Equal(t, doc.ID+"_thumb.png", doc.Thumbnail)
		require.Contains(t, blobs.blobs, doc.Thumbnail)

		thumbImg, err := png.Decode(bytes.NewReader(blobs.blobs[doc.Thumbnail]))
		require.NoError(t, err)
		require.Equal(t, 100, thumbImg.Bounds().Dx())
		require.Equal(t, 50, thumbImg.Bounds().Dy())

		stored, err := docs.GetDocByID(ctx, doc.ID)
		require.NoError(t, err)
		require.Equal(t, doc.Thumbnail, stored.Thumbnail)
	})

	t.Run("image that does not decode still uploads", func(t *testing.T) {
		doc, err := svc.Upload(ctx, "user-1", "broken.png", strings.NewReader("not a png"))
		require.NoError(t, err)
		require.Empty(t, doc.Thumbnail)
		require.Contains(t, blobs.blobs, doc.Path)
	})
}

func TestDocService_Download(t *testing.T) {
	t.Parallel()

	docs := newFakeDocs()
	blobs := newMemBlob()
	svc := NewDocService(docs, blobs)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)

	got, rc, err := svc.Download(ctx, doc.ID)
	require.NoError(t, err)
	defer rc.Close()
	require.Equal(t, doc.ID, got.ID)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	require.NoError(t, svc.Delete(ctx, doc.ID, "user-1"))
	_, _, err = svc.Download(ctx, doc.ID)
	require.ErrorIs(t, err, ErrAlreadyDeleted)
}

func TestDocService_Delete(t *testing.T) {
	t.Parallel()

	docs := newFakeDocs()
	blobs := newMemBlob()
	svc := NewDocService(docs, blobs)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "mine.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "missing", "user-1"), store.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, doc.ID, "user-2"), ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, doc.ID, "user-1"))
	require.ErrorIs(t, svc.Delete(ctx, doc.ID, "user-1"), ErrAlreadyDeleted)

	// Soft delete keeps both the row and the blob.
	stored, err := docs.GetDocByID(ctx, doc.ID)
	require.NoError(t, err)
	require.True(t, stored.Deleted)
	require.Contains(t, blobs.blobs, doc.Path)

	// Deleted documents drop out of listings.
	list, count, err := svc.List(ctx, store.DocFilter{})
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, list)
}
