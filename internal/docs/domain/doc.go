package domain

import (
	"slices"
	"strings"
	"time"
)

// Document is stored file metadata. The blob itself lives in object storage
// under Path; Thumbnail is a second key, set only for images.
type Document struct {
	ID        string
	Name      string
	Extension string
	Path      string
	UserID    string
	Deleted   bool
	Thumbnail string
	CreatedAt time.Time
}

// Extension whitelists. Uploads outside these are refused.
var (
	ImageExtensions    = []string{".gif", ".jpg", ".jpeg", ".png"}
	DocumentExtensions = []string{".doc", ".docx", ".html", ".pdf", ".txt", ".xsl", ".xlsx"}
	VideoExtensions    = []string{".mp4", ".mov", ".wmv", ".flv", ".avi"}
)

// ExtensionAllowed reports whether ext (with leading dot, any case) may be
// uploaded.
func ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	return slices.Contains(ImageExtensions, ext) ||
		slices.Contains(DocumentExtensions, ext) ||
		slices.Contains(VideoExtensions, ext)
}

// IsImageExtension reports whether ext gets a thumbnail.
func IsImageExtension(ext string) bool {
	return slices.Contains(ImageExtensions, strings.ToLower(ext))
}
