// Package youtube resolves channel identifiers to human-readable channel
// metadata through the YouTube Data API v3, with a local fallback when no
// API key is configured or the API cannot answer.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/channelurl"
	"github.com/shorthub/coordinator/internal/models"
)

// DefaultBaseURL is the public Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxErrorBytes caps how much of an error reply is read for its message.
const maxErrorBytes = 64 << 10

// ErrNotFound is returned when a lookup yields no items.
var ErrNotFound = errors.New("youtube: not found")

// APIError is a non-2xx answer from the Data API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("youtube: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("youtube: HTTP %d: %s", e.StatusCode, e.Message)
}

// Fetcher resolves identifiers. It is safe for concurrent use.
type Fetcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// New returns a Fetcher. An empty apiKey makes every Resolve use the
// URL-derived fallback. Empty baseURL means DefaultBaseURL.
func New(apiKey, baseURL string, client *http.Client, log *zap.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     log,
	}
}

// HasAPIKey reports whether the Data API path is enabled.
func (f *Fetcher) HasAPIKey() bool {
	return f.apiKey != ""
}

// Resolve returns channel metadata for id. API failures degrade to the
// URL-derived record; the only error is a cancelled ctx.
func (f *Fetcher) Resolve(ctx context.Context, id models.ChannelIdentifier) (models.ChannelInfo, error) {
	if f.HasAPIKey() {
		info, err := f.FetchFromAPI(ctx, id)
		if err == nil {
			return info, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.ChannelInfo{}, ctxErr
		}
		f.log.Warn("data API lookup failed, using URL-derived record",
			zap.String("kind", string(id.Kind)),
			zap.String("value", id.Value),
			zap.Error(err))
	}
	return Fallback(id), nil
}

// FetchFromAPI resolves id to a channel id and loads its details. Any
// failing step fails the whole lookup.
func (f *Fetcher) FetchFromAPI(ctx context.Context, id models.ChannelIdentifier) (models.ChannelInfo, error) {
	channelID, err := f.channelID(ctx, id)
	if err != nil {
		return models.ChannelInfo{}, err
	}
	return f.channelDetails(ctx, channelID)
}

func (f *Fetcher) channelID(ctx context.Context, id models.ChannelIdentifier) (string, error) {
	switch {
	case id.Kind == models.KindDirectID:
		return id.Value, nil
	case id.Kind.IsContent():
		var res listResponse
		if err := f.get(ctx, "videos", url.Values{"part": {"snippet"}, "id": {id.Value}}, &res); err != nil {
			return "", fmt.Errorf("lookup video %s: %w", id.Value, err)
		}
		if len(res.Items) == 0 || res.Items[0].Snippet.ChannelID == "" {
			return "", fmt.Errorf("lookup video %s: %w", id.Value, ErrNotFound)
		}
		return res.Items[0].Snippet.ChannelID, nil
	default:
		q := id.Value
		if id.Kind == models.KindHandle {
			q = "@" + q
		}
		var res listResponse
		params := url.Values{"part": {"snippet"}, "type": {"channel"}, "q": {q}, "maxResults": {"1"}}
		if err := f.get(ctx, "search", params, &res); err != nil {
			return "", fmt.Errorf("search channel %q: %w", q, err)
		}
		if len(res.Items) == 0 {
			return "", fmt.Errorf("search channel %q: %w", q, ErrNotFound)
		}
		item := res.Items[0]
		if item.ID.ChannelID != "" {
			return item.ID.ChannelID, nil
		}
		if item.Snippet.ChannelID != "" {
			return item.Snippet.ChannelID, nil
		}
		return "", fmt.Errorf("search channel %q: %w", q, ErrNotFound)
	}
}

func (f *Fetcher) channelDetails(ctx context.Context, channelID string) (models.ChannelInfo, error) {
	var res listResponse
	params := url.Values{"part": {"snippet,statistics"}, "id": {channelID}}
	if err := f.get(ctx, "channels", params, &res); err != nil {
		return models.ChannelInfo{}, fmt.Errorf("load channel %s: %w", channelID, err)
	}
	if len(res.Items) == 0 {
		return models.ChannelInfo{}, fmt.Errorf("load channel %s: %w", channelID, ErrNotFound)
	}
	item := res.Items[0]

	var subs int64
	if !item.Statistics.HiddenSubscriberCount && item.Statistics.SubscriberCount != "" {
		if n, err := strconv.ParseInt(item.Statistics.SubscriberCount, 10, 64); err == nil {
			subs = n
		} else {
			subs = ParseSubscriberCount(item.Statistics.SubscriberCount)
		}
	}

	return models.ChannelInfo{
		ChannelName:     item.Snippet.Title,
		ChannelID:       channelID,
		URL:             "https://www.youtube.com/channel/" + channelID,
		SubscriberCount: subs,
		ProfileImageURL: item.Snippet.Thumbnails.best(),
	}, nil
}

func (f *Fetcher) get(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("key", f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/"+resource+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body errorResponse
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes)); json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

// Fallback synthesizes a record from the identifier alone.
func Fallback(id models.ChannelIdentifier) models.ChannelInfo {
	info := models.ChannelInfo{
		URL:        channelurl.CanonicalURL(id),
		URLDerived: true,
	}
	switch id.Kind {
	case models.KindHandle:
		info.ChannelName = "@" + id.Value
	case models.KindCustomAlias, models.KindUsername:
		info.ChannelName = id.Value
	case models.KindDirectID:
		info.ChannelID = id.Value
		info.ChannelName = "Channel " + abbreviate(id.Value, 8)
	default:
		info.ChannelName = "Unknown Channel"
	}
	return info
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
