package common

import "time"

// APIType identifies the upstream metadata API family for a station
type APIType string

const (
	APITypeTriton         APIType = "triton"
	APITypeStreamTheWorld APIType = "streamtheworld"
	APITypeSomaFM         APIType = "somafm"
	APITypeCustom         APIType = "custom"
	APITypeAuto           APIType = "auto"
	APITypeUnsupported    APIType = "unsupported"
)

// ArtworkAdSentinel is stored in place of an artwork URL when a track is
// classified as an advertisement and no brand logo could be resolved.
const ArtworkAdSentinel = "advertisement"

// Track is the normalized output of a single upstream adapter fetch.
// A nil Track with a nil error means the source had no usable data
// (the dominant steady-state outcome when an upstream API is down).
type Track struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Artwork  string `json:"artwork,omitempty"`
	Duration int    `json:"duration,omitempty"` // seconds
}

// TrackMetadata is the final now-playing record produced by the dispatcher.
// It is constructed fresh on every poll cycle and never mutated in place.
type TrackMetadata struct {
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Album       string    `json:"album,omitempty"`
	Artwork     string    `json:"artwork,omitempty"`
	Duration    int       `json:"duration,omitempty"`
	IsAd        bool      `json:"isAd"`
	IsLive      bool      `json:"isLive"`
	StationID   string    `json:"stationId"`
	StationName string    `json:"stationName"`
	Timestamp   time.Time `json:"timestamp"`
}

// StationDescriptor is the static per-station configuration. It is
// read-only to the pipeline; the factory keeps its own memo of the
// adapter type detected for "auto" stations.
type StationDescriptor struct {
	StationID   string  `json:"station_id" yaml:"station_id" mapstructure:"station_id"`
	DisplayName string  `json:"display_name" yaml:"display_name" mapstructure:"display_name"`
	Tagline     string  `json:"tagline,omitempty" yaml:"tagline" mapstructure:"tagline"`
	APIType     APIType `json:"api_type" yaml:"api_type" mapstructure:"api_type"`
	APIURL      string  `json:"api_url,omitempty" yaml:"api_url" mapstructure:"api_url"`
	StreamURL   string  `json:"stream_url" yaml:"stream_url" mapstructure:"stream_url"`
	Frequency   string  `json:"frequency,omitempty" yaml:"frequency" mapstructure:"frequency"`
	Location    string  `json:"location,omitempty" yaml:"location" mapstructure:"location"`
	Genre       string  `json:"genre,omitempty" yaml:"genre" mapstructure:"genre"`
}

// ClassifierTier identifies which stage of the classification chain
// produced a verdict
type ClassifierTier string

const (
	TierKeyword ClassifierTier = "keyword"
	TierPattern ClassifierTier = "pattern"
	TierDeep    ClassifierTier = "deep"
)

// AdVerdict is the structured output of the ad classifier for a single
// metadata snapshot. Confidence is always within [0, 1].
type AdVerdict struct {
	IsAd       bool           `json:"isAd"`
	Confidence float64        `json:"confidence"`
	Category   string         `json:"category,omitempty"`
	Brand      string         `json:"brand,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Tier       ClassifierTier `json:"tier,omitempty"`
}
