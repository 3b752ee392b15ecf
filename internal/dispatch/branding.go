package dispatch

import (
	"strings"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

const (
	adFallbackTitle = "Advertisement"
	adTitleSuffix   = " Commercial"
	adAlbum         = "Commercial Break"
)

// applyBranding rewrites a record once content is classified as an
// advertisement: the title becomes "<Brand> Commercial" (or
// "Advertisement" when no brand was identified), the artist becomes the
// station name, the album marks the commercial break, and the artwork
// carries a brand logo or the ad sentinel. The rewrite is idempotent so
// re-classifying branded output never stacks suffixes.
func applyBranding(track common.TrackMetadata, verdict common.AdVerdict, station *common.StationDescriptor, logoURL string) common.TrackMetadata {
	track.IsAd = true

	if !isBranded(track) {
		if verdict.Brand != "" {
			track.Title = verdict.Brand + adTitleSuffix
		} else {
			track.Title = adFallbackTitle
		}
	}

	track.Artist = station.DisplayName
	track.Album = adAlbum

	if logoURL == "" {
		logoURL = common.ArtworkAdSentinel
	}
	track.Artwork = logoURL

	return track
}

// isBranded detects records that already carry the branding rewrite
func isBranded(track common.TrackMetadata) bool {
	return track.Title == adFallbackTitle ||
		strings.HasSuffix(track.Title, adTitleSuffix) ||
		track.Album == adAlbum
}
