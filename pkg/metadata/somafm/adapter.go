// Package somafm fetches now-playing metadata from SomaFM's public
// songs API, which returns a JSON array of recent songs with the
// current one first.
package somafm

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// Adapter fetches and normalizes SomaFM JSON metadata
type Adapter struct {
	client *http.Client
}

// NewAdapter creates a SomaFM adapter with the given request timeout
func NewAdapter(timeout time.Duration) *Adapter {
	return &Adapter{
		client: &http.Client{Timeout: timeout},
	}
}

// Type returns the API family this adapter handles
func (a *Adapter) Type() common.APIType {
	return common.APITypeSomaFM
}

type songsResponse struct {
	Songs []struct {
		Title    string `json:"title"`
		Artist   string `json:"artist"`
		Album    string `json:"album"`
		AlbumArt string `json:"albumart"`
	} `json:"songs"`
}

// Fetch performs a single request against the station's SomaFM songs
// endpoint and takes the most recent entry. An empty songs array is a
// miss, identical to an unreachable source.
func (a *Adapter) Fetch(ctx context.Context, station *common.StationDescriptor) (*common.Track, error) {
	body, _, err := common.FetchBody(ctx, a.client, common.APITypeSomaFM, station.APIURL)
	if err != nil {
		return nil, err
	}

	var resp songsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil
	}

	if len(resp.Songs) == 0 {
		return nil, nil
	}

	current := resp.Songs[0]
	title := common.CleanField(current.Title)
	if title == "" {
		return nil, nil
	}

	track := &common.Track{
		Title:   title,
		Artist:  common.CleanField(current.Artist),
		Album:   common.CleanField(current.Album),
		Artwork: common.CleanField(current.AlbumArt),
	}

	if track.Artist == "" {
		track.Artist = station.DisplayName
	}

	return track, nil
}
