package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

func brandingStation() *common.StationDescriptor {
	return &common.StationDescriptor{
		StationID:   "skywave-classic",
		DisplayName: "SkyWave Classic",
	}
}

func TestApplyBrandingWithBrand(t *testing.T) {
	track := common.TrackMetadata{Title: "Some upstream text", Artist: "Whatever"}
	verdict := common.AdVerdict{IsAd: true, Brand: "Capital One"}

	branded := applyBranding(track, verdict, brandingStation(), "https://logos.example/capitalone.com")

	assert.True(t, branded.IsAd)
	assert.Equal(t, "Capital One Commercial", branded.Title)
	assert.Equal(t, "SkyWave Classic", branded.Artist)
	assert.Equal(t, "Commercial Break", branded.Album)
	assert.Equal(t, "https://logos.example/capitalone.com", branded.Artwork)
}

func TestApplyBrandingWithoutBrand(t *testing.T) {
	track := common.TrackMetadata{Title: "Some upstream text"}
	verdict := common.AdVerdict{IsAd: true}

	branded := applyBranding(track, verdict, brandingStation(), "")

	assert.Equal(t, "Advertisement", branded.Title)
	assert.Equal(t, common.ArtworkAdSentinel, branded.Artwork)
}

func TestApplyBrandingIsIdempotent(t *testing.T) {
	track := common.TrackMetadata{Title: "Something"}
	verdict := common.AdVerdict{IsAd: true, Brand: "Geico"}

	once := applyBranding(track, verdict, brandingStation(), "")
	twice := applyBranding(once, verdict, brandingStation(), "")

	assert.Equal(t, once, twice)
	assert.Equal(t, "Geico Commercial", twice.Title)
}

func TestApplyBrandingKeepsUpstreamBrandedTitle(t *testing.T) {
	// A record whose title already reads as branded keeps it even when
	// the verdict names no brand
	track := common.TrackMetadata{Title: "Advertisement"}
	verdict := common.AdVerdict{IsAd: true, Brand: "Chase"}

	branded := applyBranding(track, verdict, brandingStation(), "")

	assert.Equal(t, "Advertisement", branded.Title)
}
