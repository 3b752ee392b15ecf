package artwork

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

func TestGuessDomain(t *testing.T) {
	tests := []struct {
		brand string
		want  string
	}{
		{brand: "Capital One", want: "capitalone.com"},
		{brand: "McDonald's", want: "mcdonalds.com"},
		{brand: "AT&T", want: "att.com"},
		{brand: "Geico", want: "geico.com"},
		{brand: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessDomain(tt.brand))
		})
	}
}

func TestResolveReturnsLogoURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/capitalone.com" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := NewLogoResolverWithEndpoint(server.URL, time.Second, logging.NewTestLogger())

	got := resolver.Resolve(context.Background(), "Capital One")
	assert.Equal(t, server.URL+"/capitalone.com", got)
}

func TestResolveSentinelOnMissingLogo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := NewLogoResolverWithEndpoint(server.URL, time.Second, logging.NewTestLogger())

	assert.Equal(t, common.ArtworkAdSentinel, resolver.Resolve(context.Background(), "Unknown Brand"))
}

func TestResolveSentinelOnEmptyBrand(t *testing.T) {
	resolver := NewLogoResolver(time.Second, logging.NewTestLogger())
	assert.Equal(t, common.ArtworkAdSentinel, resolver.Resolve(context.Background(), ""))
}
