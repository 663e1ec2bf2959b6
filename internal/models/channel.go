package models

// ChannelKind tags how a platform URL identified a channel.
type ChannelKind string

const (
	// KindDirectID is a /channel/<id> URL.
	KindDirectID ChannelKind = "direct-id"
	// KindCustomAlias is a /c/<alias> URL.
	KindCustomAlias ChannelKind = "custom-alias"
	// KindUsername is a legacy /user/<name> URL.
	KindUsername ChannelKind = "username"
	// KindHandle is a /@<handle> URL.
	KindHandle ChannelKind = "handle"
	// KindVideo is a /watch?v=<id> URL; Value is a video id, not a channel id.
	KindVideo ChannelKind = "video"
	// KindShort is a /shorts/<id> URL; Value is a video id, not a channel id.
	KindShort ChannelKind = "short"
)

// IsContent reports whether the identifier points at a piece of content
// that still has to be resolved to its channel.
func (k ChannelKind) IsContent() bool {
	return k == KindVideo || k == KindShort
}

// ChannelIdentifier is the typed result of parsing a platform URL.
type ChannelIdentifier struct {
	Kind      ChannelKind `json:"kind"`
	Value     string      `json:"value"`
	SourceURL string      `json:"sourceUrl"`
}

// ChannelInfo is the human-readable channel metadata returned by extractChannelFromUrl.
type ChannelInfo struct {
	ChannelName     string `json:"channelName"`
	ChannelID       string `json:"channelId,omitempty"`
	URL             string `json:"url"`
	SubscriberCount int64  `json:"subscriberCount"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	// URLDerived marks records synthesized from the URL alone, not verified by the data API.
	URLDerived bool `json:"urlDerived"`
}
