// Package channelurl maps platform URLs to typed channel identifiers.
package channelurl

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/shorthub/coordinator/internal/models"
)

type pattern struct {
	kind models.ChannelKind
	re   *regexp.Regexp
}

// Order matters: the first matching pattern wins.
var pathPatterns = []pattern{
	{models.KindDirectID, regexp.MustCompile(`^/channel/([A-Za-z0-9_-]+)`)},
	{models.KindCustomAlias, regexp.MustCompile(`^/c/([A-Za-z0-9_-]+)`)},
	{models.KindUsername, regexp.MustCompile(`^/user/([A-Za-z0-9_-]+)`)},
	{models.KindHandle, regexp.MustCompile(`^/@([A-Za-z0-9_.-]+)`)},
}

var (
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	shortRe   = regexp.MustCompile(`^/shorts/([A-Za-z0-9_-]+)`)

	// channelShapes are the only URL shapes the catalog accepts for submission.
	channelShapes = pathPatterns
)

var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
}

// Parse returns the identifier for raw, or false when raw is not a URL or
// matches none of the known shapes. It never panics.
func Parse(raw string) (models.ChannelIdentifier, bool) {
	u, ok := parseAbsolute(raw)
	if !ok {
		return models.ChannelIdentifier{}, false
	}

	for _, p := range pathPatterns {
		if m := p.re.FindStringSubmatch(u.Path); m != nil {
			return models.ChannelIdentifier{Kind: p.kind, Value: m[1], SourceURL: raw}, true
		}
	}

	if u.Path == "/watch" {
		if v := u.Query().Get("v"); videoIDRe.MatchString(v) {
			return models.ChannelIdentifier{Kind: models.KindVideo, Value: v, SourceURL: raw}, true
		}
	}

	if m := shortRe.FindStringSubmatch(u.Path); m != nil {
		return models.ChannelIdentifier{Kind: models.KindShort, Value: m[1], SourceURL: raw}, true
	}

	return models.ChannelIdentifier{}, false
}

// IsChannelURL reports whether raw is a youtube.com URL in one of the four
// channel shapes (/channel/, /c/, /user/, /@). Content URLs are rejected.
func IsChannelURL(raw string) bool {
	u, ok := parseAbsolute(raw)
	if !ok || !youtubeHosts[strings.ToLower(u.Hostname())] {
		return false
	}
	for _, p := range channelShapes {
		if p.re.MatchString(u.Path) {
			return true
		}
	}
	return false
}

// CanonicalURL returns the platform URL for id in its kind-specific form.
func CanonicalURL(id models.ChannelIdentifier) string {
	const base = "https://www.youtube.com"
	switch id.Kind {
	case models.KindDirectID:
		return base + "/channel/" + id.Value
	case models.KindCustomAlias:
		return base + "/c/" + id.Value
	case models.KindUsername:
		return base + "/user/" + id.Value
	case models.KindHandle:
		return base + "/@" + id.Value
	case models.KindVideo:
		return base + "/watch?v=" + url.QueryEscape(id.Value)
	case models.KindShort:
		return base + "/shorts/" + id.Value
	default:
		return id.SourceURL
	}
}

func parseAbsolute(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}
