// Package custom fetches now-playing metadata from generic station
// APIs that expose ad hoc JSON shapes. It probes a set of known field
// aliases before giving up, which also makes it the terminal fallback
// adapter when a station's API family is auto-detected.
package custom

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// Field aliases observed across one-off station APIs, in probe order.
var (
	titleAliases   = []string{"title", "song", "track", "now_playing"}
	artistAliases  = []string{"artist", "performer", "author"}
	albumAliases   = []string{"album", "release"}
	artworkAliases = []string{"artwork", "art", "cover", "image"}
)

// Adapter fetches and normalizes generic JSON metadata
type Adapter struct {
	client *http.Client
}

// NewAdapter creates a generic JSON adapter with the given request timeout
func NewAdapter(timeout time.Duration) *Adapter {
	return &Adapter{
		client: &http.Client{Timeout: timeout},
	}
}

// Type returns the API family this adapter handles
func (a *Adapter) Type() common.APIType {
	return common.APITypeCustom
}

// Fetch performs a single request against the station's API and probes
// known field aliases. A payload with no recognizable title is a miss.
func (a *Adapter) Fetch(ctx context.Context, station *common.StationDescriptor) (*common.Track, error) {
	body, _, err := common.FetchBody(ctx, a.client, common.APITypeCustom, station.APIURL)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil
	}

	title := firstString(payload, titleAliases)
	if title == "" {
		return nil, nil
	}

	track := &common.Track{
		Title:   title,
		Artist:  firstString(payload, artistAliases),
		Album:   firstString(payload, albumAliases),
		Artwork: firstString(payload, artworkAliases),
	}

	// Some APIs pack "Artist - Title" into the single title field
	if track.Artist == "" {
		if artist, split := common.SplitTitleArtist(track.Title); artist != "" {
			track.Artist = artist
			track.Title = split
		}
	}

	if track.Artist == "" {
		track.Artist = station.DisplayName
	}

	return track, nil
}

// firstString returns the first non-empty string value among the given
// keys, checking the top level and then one nested object level
func firstString(payload map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := payload[key].(string); ok {
			if cleaned := common.CleanField(s); cleaned != "" {
				return cleaned
			}
		}
	}
	for _, nested := range payload {
		obj, ok := nested.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range keys {
			if s, ok := obj[key].(string); ok {
				if cleaned := common.CleanField(s); cleaned != "" {
					return cleaned
				}
			}
		}
	}
	return ""
}
