package channelurl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shorthub/coordinator/internal/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantKind  models.ChannelKind
		wantValue string
		wantOK    bool
	}{
		{"direct id", "https://www.youtube.com/channel/UC1234567890abcdefghij", models.KindDirectID, "UC1234567890abcdefghij", true},
		{"custom alias", "https://www.youtube.com/c/SomeAlias/videos", models.KindCustomAlias, "SomeAlias", true},
		{"username", "https://youtube.com/user/legacy_name", models.KindUsername, "legacy_name", true},
		{"handle", "https://www.youtube.com/@somechannel", models.KindHandle, "somechannel", true},
		{"handle with dot", "https://m.youtube.com/@some.channel/shorts", models.KindHandle, "some.channel", true},
		{"video", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", models.KindVideo, "dQw4w9WgXcQ", true},
		{"short", "https://www.youtube.com/shorts/abc_DEF-123", models.KindShort, "abc_DEF-123", true},
		{"watch without id", "https://www.youtube.com/watch", "", "", false},
		{"home page", "https://www.youtube.com/", "", "", false},
		{"not a url", "not a url", "", "", false},
		{"empty", "", "", "", false},
		{"bad escape", "https://www.youtube.com/%zz", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.url, got.SourceURL)
		})
	}
}

func TestParse_DirectIDBeatsAlias(t *testing.T) {
	// /channel/c/... is structurally both a channel path and contains /c/.
	got, ok := Parse("https://www.youtube.com/channel/c/alias")
	assert.True(t, ok)
	assert.Equal(t, models.KindDirectID, got.Kind)
	assert.Equal(t, "c", got.Value)
}

func TestIsChannelURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/@somechannel", true},
		{"https://youtube.com/channel/UCxyz", true},
		{"https://m.youtube.com/c/alias", true},
		{"https://www.youtube.com/user/name", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://www.youtube.com/shorts/abc", false},
		{"https://x/y", false},
		{"https://evil.example/@somechannel", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsChannelURL(tt.url), tt.url)
	}
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		id   models.ChannelIdentifier
		want string
	}{
		{models.ChannelIdentifier{Kind: models.KindDirectID, Value: "UC1"}, "https://www.youtube.com/channel/UC1"},
		{models.ChannelIdentifier{Kind: models.KindCustomAlias, Value: "a"}, "https://www.youtube.com/c/a"},
		{models.ChannelIdentifier{Kind: models.KindUsername, Value: "u"}, "https://www.youtube.com/user/u"},
		{models.ChannelIdentifier{Kind: models.KindHandle, Value: "h"}, "https://www.youtube.com/@h"},
		{models.ChannelIdentifier{Kind: models.KindVideo, Value: "v1"}, "https://www.youtube.com/watch?v=v1"},
		{models.ChannelIdentifier{Kind: models.KindShort, Value: "s1"}, "https://www.youtube.com/shorts/s1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalURL(tt.id))
	}
}
