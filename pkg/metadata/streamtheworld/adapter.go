// Package streamtheworld fetches now-playing metadata from
// StreamTheWorld nowplaying APIs. The endpoint nominally returns JSON;
// an observed failure mode is the API silently answering with XML,
// which is treated as a miss rather than a parse error.
package streamtheworld

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// Adapter fetches and normalizes StreamTheWorld JSON metadata
type Adapter struct {
	client *http.Client
}

// NewAdapter creates a StreamTheWorld adapter with the given request timeout
func NewAdapter(timeout time.Duration) *Adapter {
	return &Adapter{
		client: &http.Client{Timeout: timeout},
	}
}

// Type returns the API family this adapter handles
func (a *Adapter) Type() common.APIType {
	return common.APITypeStreamTheWorld
}

type nowPlayingResponse struct {
	Results struct {
		Livestream []struct {
			Cue struct {
				Title    string `json:"title"`
				Artist   string `json:"artist"`
				Album    string `json:"albumName"`
				Duration int    `json:"duration"`
			} `json:"cue"`
		} `json:"livestream"`
	} `json:"results"`
}

// Fetch performs a single request against the station's StreamTheWorld
// endpoint. Non-JSON responses and empty livestream arrays are misses.
func (a *Adapter) Fetch(ctx context.Context, station *common.StationDescriptor) (*common.Track, error) {
	body, contentType, err := common.FetchBody(ctx, a.client, common.APITypeStreamTheWorld, station.APIURL)
	if err != nil {
		return nil, err
	}

	if !strings.Contains(common.ExtractContentType(contentType), "json") {
		return nil, nil
	}

	var resp nowPlayingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil
	}

	if len(resp.Results.Livestream) == 0 {
		return nil, nil
	}

	cue := resp.Results.Livestream[0].Cue
	title := common.CleanField(cue.Title)
	if title == "" {
		return nil, nil
	}

	track := &common.Track{
		Title:    title,
		Artist:   common.CleanField(cue.Artist),
		Album:    common.CleanField(cue.Album),
		Duration: cue.Duration,
	}

	if track.Artist == "" {
		track.Artist = station.DisplayName
	}

	return track, nil
}
