package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/paperloop/paperloop/internal/docs/domain"
	"github.com/paperloop/paperloop/pkg/httpx"
)

const (
	msgNotAuthenticated = "Authentication credentials were not provided."
	msgInvalidToken     = "Invalid token"
	msgNoFile           = "Please provide a file"
	msgBadExtension     = "The file type is not allowed"
	msgFileNotFound     = "File not found"
	msgNotOwner         = "User is not owner of the document"
)

// writeError emits the docs error envelope: {"error": msg}.
func writeError(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, map[string]string{"error": msg})
}

// DocResponse is the wire shape of a document.
type DocResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Extension string    `json:"extension"`
	Path      string    `json:"path"`
	UserID    string    `json:"user_id"`
	Deleted   bool      `json:"deleted"`
	Thumbnail *string   `json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
}

func newDocResponse(d domain.Document) DocResponse {
	resp := DocResponse{
		ID:        d.ID,
		Name:      d.Name,
		Extension: d.Extension,
		Path:      d.Path,
		UserID:    d.UserID,
		Deleted:   d.Deleted,
		CreatedAt: d.CreatedAt,
	}
	if d.Thumbnail != "" {
		resp.Thumbnail = &d.Thumbnail
	}
	return resp
}

// PageResponse is the envelope for paginated listings.
type PageResponse struct {
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []DocResponse `json:"results"`
}

func newPageResponse(r *http.Request, results []DocResponse, count, limit, offset int) PageResponse {
	page := PageResponse{Count: count, Results: results}
	if page.Results == nil {
		page.Results = []DocResponse{}
	}
	if offset+limit < count {
		page.Next = pageURL(r, limit, offset+limit)
	}
	if offset > 0 {
		page.Previous = pageURL(r, limit, max(offset-limit, 0))
	}
	return page
}

func pageURL(r *http.Request, limit, offset int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
