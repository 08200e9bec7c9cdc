package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/paperloop/paperloop/internal/docs/service"
	"github.com/paperloop/paperloop/internal/docs/store"
	"github.com/paperloop/paperloop/pkg/httpx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

const (
	defaultPageSize = 10

	// maxUploadBytes bounds a single multipart upload. Video is on the
	// whitelist, so the cap is generous.
	maxUploadBytes = 512 << 20
)

// DocsHandler serves the document endpoints. Every route sits behind
// VerifyToken, so a subject id is always in the context.
type DocsHandler struct {
	Docs *service.DocService
}

func (h *DocsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _ := httpx.SubjectFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	doc, err := h.Docs.Upload(r.Context(), userID, header.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrExtensionNotAllowed) {
			writeError(w, http.StatusBadRequest, msgBadExtension)
			return
		}
		writeServerError(w, r, "upload failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"id": doc.ID})
}

func (h *DocsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultPageSize
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}

	filter := store.DocFilter{
		Extension: q.Get("extension"),
		UserID:    q.Get("user_id"),
		Limit:     limit,
		Offset:    offset,
	}
	if order := q.Get("order"); order != "" {
		filter.Order = strings.Split(order, ",")
	}

	docs, total, err := h.Docs.List(r.Context(), filter)
	if err != nil {
		writeServerError(w, r, "list docs failed", err)
		return
	}

	results := make([]DocResponse, 0, len(docs))
	for _, d := range docs {
		results = append(results, newDocResponse(d))
	}
	httpx.WriteJSON(w, http.StatusOK, newPageResponse(r, results, total, limit, offset))
}

func (h *DocsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgFileNotFound)
			return
		}
		writeServerError(w, r, "get doc failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newDocResponse(doc))
}

func (h *DocsHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, rc, err := h.Docs.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, service.ErrAlreadyDeleted) {
			writeError(w, http.StatusNotFound, msgFileNotFound)
			return
		}
		writeServerError(w, r, "download failed", err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(doc.Extension)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Name+doc.Extension+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		slogx.FromContext(r.Context()).Warn("download interrupted", "doc_id", doc.ID, "err", err)
	}
}

func (h *DocsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := httpx.SubjectFromContext(r.Context())

	err := h.Docs.Delete(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrAlreadyDeleted):
			writeError(w, http.StatusNotFound, msgFileNotFound)
		case errors.Is(err, service.ErrNotOwner):
			writeError(w, http.StatusForbidden, msgNotOwner)
		default:
			writeServerError(w, r, "delete doc failed", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slogx.FromContext(r.Context()).Error(msg, "err", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
