package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTitleArtist(t *testing.T) {
	tests := []struct {
		name       string
		combined   string
		wantArtist string
		wantTitle  string
	}{
		{name: "dash separator", combined: "Miles Davis - So What", wantArtist: "Miles Davis", wantTitle: "So What"},
		{name: "en dash", combined: "Miles Davis – So What", wantArtist: "Miles Davis", wantTitle: "So What"},
		{name: "colon separator", combined: "Miles Davis: So What", wantArtist: "Miles Davis", wantTitle: "So What"},
		{name: "pipe separator", combined: "Miles Davis | So What", wantArtist: "Miles Davis", wantTitle: "So What"},
		{name: "no separator", combined: "So What", wantArtist: "", wantTitle: "So What"},
		{name: "empty", combined: "  ", wantArtist: "", wantTitle: ""},
		{name: "hyphenated title stays whole", combined: "Twenty-One", wantArtist: "", wantTitle: "Twenty-One"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, title := SplitTitleArtist(tt.combined)
			assert.Equal(t, tt.wantArtist, artist)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}

func TestCleanField(t *testing.T) {
	assert.Equal(t, "So What", CleanField(`  "So What"  `))
	assert.Equal(t, "So What", CleanField(`'So What'`))
	assert.Equal(t, "", CleanField(`   `))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://somafm.com/songs/groovesalad.json"))
	assert.True(t, IsValidURL("http://example.com"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("somafm.com"))
}

func TestExtractContentType(t *testing.T) {
	assert.Equal(t, "application/json", ExtractContentType("application/json; charset=utf-8"))
	assert.Equal(t, "text/xml", ExtractContentType(" TEXT/XML "))
	assert.Equal(t, "", ExtractContentType(""))
}

func TestFetchBodySendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	body, contentType, err := FetchBody(context.Background(), server.Client(), APITypeCustom, server.URL)

	require.NoError(t, err)
	assert.Equal(t, UserAgent, gotUA)
	assert.Equal(t, "{}", string(body))
	assert.True(t, strings.Contains(contentType, "json"))
}

func TestFetchBodyNon2xxIsSourceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := FetchBody(context.Background(), server.Client(), APITypeTriton, server.URL)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, ErrCodeConnection, srcErr.Code)
	assert.Equal(t, APITypeTriton, srcErr.Type)
}

func TestFetchBodyCapsOversizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		big := strings.Repeat("x", maxBodySize*2)
		w.Write([]byte(big))
	}))
	defer server.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	body, _, err := FetchBody(context.Background(), client, APITypeCustom, server.URL)

	require.NoError(t, err)
	assert.Len(t, body, maxBodySize)
}
