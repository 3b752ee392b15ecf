package streamtheworld

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
		StationID:   "test-station",
		DisplayName: "Test Station",
		APIType:     common.APITypeStreamTheWorld,
		APIURL:      apiURL,
	}
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestAdapterType(t *testing.T) {
	adapter := NewAdapter(time.Second)
	assert.Equal(t, common.APITypeStreamTheWorld, adapter.Type())
}

func TestFetchCuePayload(t *testing.T) {
	server := serveJSON(t, `{
		"results": {
			"livestream": [
				{"cue": {"title": "So What", "artist": "Miles Davis", "albumName": "Kind of Blue", "duration": 545}}
			]
		}
	}`)
	defer server.Close()

	adapter := NewAdapter(time.Second)
	track, err := adapter.Fetch(context.Background(), testStation(server.URL))

	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "So What", track.Title)
	assert.Equal(t, "Miles Davis", track.Artist)
	assert.Equal(t, "Kind of Blue", track.Album)
	assert.Equal(t, 545, track.Duration)
}

func TestFetchMissCases(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{
			// The API is known to answer with an XML error document under
			// load while keeping a 200 status
			name:        "xml response under json endpoint",
			contentType: "text/xml",
			body:        `<error>no mount</error>`,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"results": {`,
		},
		{
			name:        "empty livestream array",
			contentType: "application/json",
			body:        `{"results": {"livestream": []}}`,
		},
		{
			name:        "empty cue title",
			contentType: "application/json",
			body:        `{"results": {"livestream": [{"cue": {"title": "  "}}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			adapter := NewAdapter(time.Second)
			track, err := adapter.Fetch(context.Background(), testStation(server.URL))

			assert.NoError(t, err)
			assert.Nil(t, track)
		})
	}
}

func TestFetchUnreachableHostIsError(t *testing.T) {
	adapter := NewAdapter(200 * time.Millisecond)
	track, err := adapter.Fetch(context.Background(),
		testStation("http://127.0.0.1:1/nowplaying"))

	assert.Error(t, err)
	assert.Nil(t, track)
}
