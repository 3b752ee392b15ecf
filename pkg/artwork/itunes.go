// Package artwork backfills cover art for music tracks and resolves
// brand logos for advertisement records. Both lookups are best-effort:
// a failure returns an empty result and the pipeline proceeds without
// blocking on it.
package artwork

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

const (
	searchEndpoint = "https://itunes.apple.com/search"

	// The search API returns 100x100 thumbnails; the CDN serves the
	// same asset at higher resolutions under a substituted size token.
	lowResToken  = "100x100"
	highResToken = "600x600"
)

// DefaultTimeout bounds a single artwork or logo lookup
const DefaultTimeout = 2 * time.Second

// Enricher resolves cover art via the iTunes search API
type Enricher struct {
	client   *http.Client
	endpoint string
	logger   logging.Logger
}

// NewEnricher creates an artwork enricher with the given lookup timeout
func NewEnricher(timeout time.Duration, logger logging.Logger) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Enricher{
		client:   &http.Client{Timeout: timeout},
		endpoint: searchEndpoint,
		logger:   logger,
	}
}

// NewEnricherWithEndpoint creates an enricher against a custom search
// endpoint, used by tests
func NewEnricherWithEndpoint(endpoint string, timeout time.Duration, logger logging.Logger) *Enricher {
	e := NewEnricher(timeout, logger)
	e.endpoint = endpoint
	return e
}

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtworkURL100 string `json:"artworkUrl100"`
	} `json:"results"`
}

// Lookup searches for cover art by artist and title and returns the
// high-resolution artwork URL, or an empty string when none is found
func (e *Enricher) Lookup(ctx context.Context, artist, title string) string {
	term := strings.TrimSpace(artist + " " + title)
	if term == "" {
		return ""
	}

	query := url.Values{}
	query.Set("term", term)
	query.Set("media", "music")
	query.Set("limit", "1")

	body, _, err := common.FetchBody(ctx, e.client, common.APITypeCustom, e.endpoint+"?"+query.Encode())
	if err != nil {
		e.logger.Debug("Artwork lookup failed", logging.Fields{
			"artist": artist,
			"title":  title,
			"error":  err.Error(),
		})
		return ""
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}

	if resp.ResultCount == 0 || len(resp.Results) == 0 {
		return ""
	}

	thumb := resp.Results[0].ArtworkURL100
	if thumb == "" {
		return ""
	}

	return strings.Replace(thumb, lowResToken, highResToken, 1)
}
