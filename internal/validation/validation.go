// Package validation checks submission records before they reach the catalog.
package validation

import (
	"errors"
	"strings"

	"github.com/shorthub/coordinator/internal/channelurl"
	"github.com/shorthub/coordinator/internal/models"
)

// Messages are shown to the user as-is.
var (
	ErrMissingYoutubeURL  = errors.New("Missing required field: youtubeUrl")
	ErrMissingContentType = errors.New("Missing required field: contentType")
	ErrInvalidContentType = errors.New("Invalid content type. Must be one of: " + joinContentTypes())
	ErrInvalidYoutubeURL  = errors.New("Invalid YouTube URL format")
)

// ValidateSubmission returns the first problem with rec, or nil. Checks run
// in order: required fields, content type, URL shape.
func ValidateSubmission(rec models.SubmissionRecord) error {
	if strings.TrimSpace(rec.YoutubeURL) == "" {
		return ErrMissingYoutubeURL
	}
	if rec.ContentType == "" {
		return ErrMissingContentType
	}
	if !rec.ContentType.Valid() {
		return ErrInvalidContentType
	}
	if !channelurl.IsChannelURL(rec.YoutubeURL) {
		return ErrInvalidYoutubeURL
	}
	return nil
}

func joinContentTypes() string {
	s := make([]string, len(models.ContentTypes))
	for i, c := range models.ContentTypes {
		s[i] = string(c)
	}
	return strings.Join(s, ", ")
}
