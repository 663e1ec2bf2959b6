package validation

import (
	"errors"
	"testing"

	"github.com/shorthub/coordinator/internal/models"
)

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name string
		rec  models.SubmissionRecord
		want error
	}{
		{"valid handle", models.SubmissionRecord{YoutubeURL: "https://www.youtube.com/@somechannel", ContentType: models.VFSansEdit}, nil},
		{"valid channel id", models.SubmissionRecord{YoutubeURL: "https://youtube.com/channel/UC123", ContentType: models.VOAvecEdit}, nil},
		{"missing url", models.SubmissionRecord{YoutubeURL: "", ContentType: models.VFSansEdit}, ErrMissingYoutubeURL},
		{"blank url", models.SubmissionRecord{YoutubeURL: "   ", ContentType: models.VFSansEdit}, ErrMissingYoutubeURL},
		{"missing content type", models.SubmissionRecord{YoutubeURL: "https://www.youtube.com/@x"}, ErrMissingContentType},
		{"bogus content type", models.SubmissionRecord{YoutubeURL: "https://x/y", ContentType: "BOGUS"}, ErrInvalidContentType},
		{"foreign host", models.SubmissionRecord{YoutubeURL: "https://x/y", ContentType: models.VASansEdit}, ErrInvalidYoutubeURL},
		{"video url", models.SubmissionRecord{YoutubeURL: "https://www.youtube.com/watch?v=abc", ContentType: models.VASansEdit}, ErrInvalidYoutubeURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.rec)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestErrInvalidContentTypeListsValues(t *testing.T) {
	want := "Invalid content type. Must be one of: VA_SANS_EDIT, VA_AVEC_EDIT, VF_SANS_EDIT, VF_AVEC_EDIT, VO_SANS_EDIT, VO_AVEC_EDIT"
	if ErrInvalidContentType.Error() != want {
		t.Errorf("unexpected message %q", ErrInvalidContentType.Error())
	}
}
