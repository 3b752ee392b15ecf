// Package triton fetches now-playing metadata from Triton Digital
// station APIs. The endpoint returns XML with CDATA-wrapped cue fields;
// the fields are extracted by pattern match rather than a full XML
// decode because live payloads are frequently truncated or malformed.
package triton

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

var (
	cueTitleRe    = regexp.MustCompile(`(?s)<cue_title>(?:<!\[CDATA\[(.*?)\]\]>|([^<]*))</cue_title>`)
	trackArtistRe = regexp.MustCompile(`(?s)<track_artist_name>(?:<!\[CDATA\[(.*?)\]\]>|([^<]*))</track_artist_name>`)
	albumNameRe   = regexp.MustCompile(`(?s)<track_album_name>(?:<!\[CDATA\[(.*?)\]\]>|([^<]*))</track_album_name>`)
)

// Adapter fetches and normalizes Triton Digital XML metadata
type Adapter struct {
	client *http.Client
}

// NewAdapter creates a Triton adapter with the given request timeout
func NewAdapter(timeout time.Duration) *Adapter {
	return &Adapter{
		client: &http.Client{Timeout: timeout},
	}
}

// Type returns the API family this adapter handles
func (a *Adapter) Type() common.APIType {
	return common.APITypeTriton
}

// Fetch performs a single request against the station's Triton endpoint.
// A response without a usable cue_title is a miss, not an error.
func (a *Adapter) Fetch(ctx context.Context, station *common.StationDescriptor) (*common.Track, error) {
	body, _, err := common.FetchBody(ctx, a.client, common.APITypeTriton, station.APIURL)
	if err != nil {
		return nil, err
	}

	title := matchField(cueTitleRe, body)
	if title == "" {
		// Error pages and empty cue documents land here
		return nil, nil
	}

	track := &common.Track{
		Title:  title,
		Artist: matchField(trackArtistRe, body),
		Album:  matchField(albumNameRe, body),
	}

	if track.Artist == "" {
		track.Artist = station.DisplayName
	}

	return track, nil
}

// matchField returns the first capture group that matched, covering both
// the CDATA and the plain-text form of a cue field
func matchField(re *regexp.Regexp, body []byte) string {
	m := re.FindSubmatch(body)
	if m == nil {
		return ""
	}
	if len(m[1]) > 0 {
		return common.CleanField(string(m[1]))
	}
	return common.CleanField(string(m[2]))
}
