package artwork

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skywavefm/nowplaying/pkg/logging"
)

func TestLookupUpgradesResolution(t *testing.T) {
	var gotTerm string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultCount": 1,
			"results": [{"artworkUrl100": "https://cdn.example/img/100x100bb.jpg"}]
		}`))
	}))
	defer server.Close()

	e := NewEnricherWithEndpoint(server.URL, time.Second, logging.NewTestLogger())
	got := e.Lookup(context.Background(), "Miles Davis", "So What")

	assert.Equal(t, "Miles Davis So What", gotTerm)
	assert.Equal(t, "https://cdn.example/img/600x600bb.jpg", got)
}

func TestLookupNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultCount": 0, "results": []}`))
	}))
	defer server.Close()

	e := NewEnricherWithEndpoint(server.URL, time.Second, logging.NewTestLogger())
	assert.Empty(t, e.Lookup(context.Background(), "Nobody", "Nothing"))
}

func TestLookupFailuresReturnEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			e := NewEnricherWithEndpoint(server.URL, time.Second, logging.NewTestLogger())
			assert.Empty(t, e.Lookup(context.Background(), "Miles Davis", "So What"))
		})
	}
}

func TestLookupEmptyTerm(t *testing.T) {
	e := NewEnricher(time.Second, logging.NewTestLogger())
	assert.Empty(t, e.Lookup(context.Background(), "", ""))
}
