package somafm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

func testStation(apiURL string) *common.StationDescriptor {
	return &common.StationDescriptor{
		StationID:   "groove-salad",
		DisplayName: "Groove Salad",
		APIType:     common.APITypeSomaFM,
		APIURL:      apiURL,
	}
}

func TestAdapterType(t *testing.T) {
	adapter := NewAdapter(time.Second)
	assert.Equal(t, common.APITypeSomaFM, adapter.Type())
}

func TestFetchTakesFirstSong(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"songs": [
				{"title": "Aurora", "artist": "Helios", "album": "Eingya", "albumart": "https://example.com/eingya.jpg"},
				{"title": "Previous Song", "artist": "Someone Else"}
			]
		}`))
	}))
	defer server.Close()

	adapter := NewAdapter(time.Second)
	track, err := adapter.Fetch(context.Background(), testStation(server.URL))

	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "Aurora", track.Title)
	assert.Equal(t, "Helios", track.Artist)
	assert.Equal(t, "Eingya", track.Album)
	assert.Equal(t, "https://example.com/eingya.jpg", track.Artwork)
}

func TestFetchEmptySongsIsMiss(t *testing.T) {
	// An empty songs array must look exactly like an unreachable source
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"songs": []}`))
	}))
	defer server.Close()

	adapter := NewAdapter(time.Second)
	track, err := adapter.Fetch(context.Background(), testStation(server.URL))

	assert.NoError(t, err)
	assert.Nil(t, track)
}

func TestFetchMalformedJSONIsMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	adapter := NewAdapter(time.Second)
	track, err := adapter.Fetch(context.Background(), testStation(server.URL))

	assert.NoError(t, err)
	assert.Nil(t, track)
}
