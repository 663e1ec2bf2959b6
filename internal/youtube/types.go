package youtube

import "encoding/json"

type listResponse struct {
	Items []item `json:"items"`
}

type item struct {
	// ID is an object for search results and a plain string elsewhere.
	ID         itemID     `json:"id"`
	Snippet    snippet    `json:"snippet"`
	Statistics statistics `json:"statistics"`
}

type itemID struct {
	ChannelID string
}

func (i *itemID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '{' {
		var v struct {
			ChannelID string `json:"channelId"`
		}
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		i.ChannelID = v.ChannelID
	}
	return nil
}

type snippet struct {
	Title      string     `json:"title"`
	ChannelID  string     `json:"channelId"`
	Thumbnails thumbnails `json:"thumbnails"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default *thumbnail `json:"default"`
	Medium  *thumbnail `json:"medium"`
	High    *thumbnail `json:"high"`
}

// best prefers high, then medium, then default.
func (t thumbnails) best() string {
	for _, th := range []*thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

type statistics struct {
	SubscriberCount       string `json:"subscriberCount"`
	HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
