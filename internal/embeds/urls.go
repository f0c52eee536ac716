// Package embeds builds the URLs the renderer points at external resources:
// backend file-content embeds and YouTube thumbnail images.
package embeds

import (
	"errors"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	apiGroup         = "api"
	youtubeGroup     = "youtube"
	fileContentRoute = "file_content"
	thumbnailRoute   = "thumbnail"

	youtubeImageHost = "https://img.youtube.com"
)

// ErrFileIDRequired rejects embed URLs without a file identifier.
var ErrFileIDRequired = errors.New("embeds: file id is required")

// ErrVideoIDRequired rejects thumbnail URLs without a video identifier.
var ErrVideoIDRequired = errors.New("embeds: video id is required")

// URLBuilder resolves embed URLs through a go-urlkit route manager so the
// path shapes live in one place instead of scattered format strings.
type URLBuilder struct {
	manager *urlkit.RouteManager
}

// NewURLBuilder constructs a builder rooted at the chat backend base URL.
func NewURLBuilder(baseURL string) *URLBuilder {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    apiGroup,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					fileContentRoute: "/api/v1/files/:id/content",
				},
			},
			{
				Name:    youtubeGroup,
				BaseURL: youtubeImageHost,
				Paths: map[string]string{
					thumbnailRoute: "/vi/:id/0.jpg",
				},
			},
		},
	})

	return &URLBuilder{manager: manager}
}

// FileContentURL returns the backend URL serving the file's raw content,
// shaped as {base}/api/v1/files/{id}/content.
func (b *URLBuilder) FileContentURL(fileID string) (string, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return "", ErrFileIDRequired
	}
	return b.manager.Group(apiGroup).Builder(fileContentRoute).
		WithParam("id", fileID).
		Build()
}

// ThumbnailURL returns the YouTube preview image URL for a video id.
func (b *URLBuilder) ThumbnailURL(videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", ErrVideoIDRequired
	}
	return b.manager.Group(youtubeGroup).Builder(thumbnailRoute).
		WithParam("id", videoID).
		Build()
}
