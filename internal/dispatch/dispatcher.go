// Package dispatch runs the now-playing pipeline for one poll request:
// resolve the station, fetch upstream metadata through the adapter
// factory, classify it, brand or enrich the record, memoize, persist,
// and return it. Upstream failure is the common case here, not the
// exception; every external miss degrades to the station's static
// identity rather than an error.
package dispatch

import (
	"context"
	"time"

	"github.com/skywavefm/nowplaying/internal/metrics"
	"github.com/skywavefm/nowplaying/pkg/adscan"
	"github.com/skywavefm/nowplaying/pkg/artwork"
	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// Store is the persistence sink contract the dispatcher writes
// through. Write failures are logged and swallowed; a failed upsert
// never blocks the poll response.
type Store interface {
	GetCurrentTrack(ctx context.Context, stationID string) (*common.TrackMetadata, error)
	UpdateNowPlaying(ctx context.Context, track common.TrackMetadata) error
}

// Config wires the dispatcher's collaborators
type Config struct {
	Stations       map[string]*common.StationDescriptor
	DefaultStation string
	Factory        *metadata.Factory
	Classifier     *adscan.Classifier
	Enricher       *artwork.Enricher
	Logos          *artwork.LogoResolver
	Cache          Cache
	Store          Store
	Logger         logging.Logger
	// PollTimeout bounds the whole upstream leg of one poll
	PollTimeout time.Duration
}

// Dispatcher coordinates the per-poll pipeline
type Dispatcher struct {
	stations       map[string]*common.StationDescriptor
	defaultStation string
	factory        *metadata.Factory
	classifier     *adscan.Classifier
	enricher       *artwork.Enricher
	logos          *artwork.LogoResolver
	cache          Cache
	store          Store
	logger         logging.Logger
	pollTimeout    time.Duration
}

// NewDispatcher creates a dispatcher from its collaborators
func NewDispatcher(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewTTLCache(DefaultCacheTTL)
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 3 * time.Second
	}

	return &Dispatcher{
		stations:       cfg.Stations,
		defaultStation: cfg.DefaultStation,
		factory:        cfg.Factory,
		classifier:     cfg.Classifier,
		enricher:       cfg.Enricher,
		logos:          cfg.Logos,
		cache:          cache,
		store:          cfg.Store,
		logger:         logger,
		pollTimeout:    pollTimeout,
	}
}

// Resolve maps a station id to its descriptor, substituting the
// default station for unknown or empty ids
func (d *Dispatcher) Resolve(stationID string) *common.StationDescriptor {
	if station, ok := d.stations[stationID]; ok {
		return station
	}
	return d.stations[d.defaultStation]
}

// Stations returns the configured station table
func (d *Dispatcher) Stations() []*common.StationDescriptor {
	out := make([]*common.StationDescriptor, 0, len(d.stations))
	for _, s := range d.stations {
		out = append(out, s)
	}
	return out
}

// NowPlaying runs one poll cycle for a station and always returns a
// usable record
func (d *Dispatcher) NowPlaying(ctx context.Context, stationID string) common.TrackMetadata {
	start := time.Now()
	defer func() {
		metrics.PollDuration.Observe(time.Since(start).Seconds())
	}()

	station := d.Resolve(stationID)
	logger := d.logger.WithFields(logging.Fields{
		"component": "dispatcher",
		"station":   station.StationID,
	})

	fetchCtx, cancel := context.WithTimeout(ctx, d.pollTimeout)
	track, err := d.factory.Fetch(fetchCtx, station)
	cancel()

	if err != nil {
		// Expected steady-state failure mode; demoted to a miss
		logger.Warn("Upstream fetch failed, serving fallback", logging.Fields{
			"error": err.Error(),
		})
		metrics.AdapterFetches.WithLabelValues(string(station.APIType), "error").Inc()
		track = nil
	}

	if track == nil {
		if err == nil {
			metrics.AdapterFetches.WithLabelValues(string(station.APIType), "miss").Inc()
		}
		return d.fallback(station)
	}
	metrics.AdapterFetches.WithLabelValues(string(station.APIType), "hit").Inc()

	key := CacheKey(station.StationID, track.Title, track.Artist)
	if entry, ok := d.cache.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return entry.Track
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	record := common.TrackMetadata{
		Title:       track.Title,
		Artist:      track.Artist,
		Album:       track.Album,
		Artwork:     track.Artwork,
		Duration:    track.Duration,
		IsLive:      true,
		StationID:   station.StationID,
		StationName: station.DisplayName,
		Timestamp:   time.Now(),
	}

	verdict := d.classifier.Classify(track.Title, track.Artist, "")
	if verdict.IsAd {
		metrics.AdVerdicts.WithLabelValues(string(verdict.Tier)).Inc()
		logger.Info("Advertisement detected", logging.Fields{
			"tier":       verdict.Tier,
			"brand":      verdict.Brand,
			"category":   verdict.Category,
			"confidence": verdict.Confidence,
		})

		logoURL := ""
		if verdict.Brand != "" && d.logos != nil {
			logoURL = d.logos.Resolve(ctx, verdict.Brand)
		}
		record = applyBranding(record, verdict, station, logoURL)
	} else if record.Artwork == "" && d.enricher != nil {
		record.Artwork = d.enricher.Lookup(ctx, record.Artist, record.Title)
	}

	d.cache.Put(key, &Entry{Track: record, Verdict: verdict})
	d.persist(ctx, logger, record)

	return record
}

// ForceAd bypasses classification and writes a branded ad record
// directly; a manual override used by operators and demos
func (d *Dispatcher) ForceAd(ctx context.Context, stationID, brand string) common.TrackMetadata {
	station := d.Resolve(stationID)

	verdict := common.AdVerdict{
		IsAd:       true,
		Confidence: 1.0,
		Brand:      brand,
		Reason:     "manual override",
		Tier:       common.TierPattern,
	}

	logoURL := ""
	if brand != "" && d.logos != nil {
		logoURL = d.logos.Resolve(ctx, brand)
	}

	record := applyBranding(common.TrackMetadata{
		IsLive:      true,
		StationID:   station.StationID,
		StationName: station.DisplayName,
		Timestamp:   time.Now(),
	}, verdict, station, logoURL)

	d.persist(ctx, d.logger, record)
	return record
}

// fallback builds the static station-identity record served whenever
// no live upstream data is obtainable
func (d *Dispatcher) fallback(station *common.StationDescriptor) common.TrackMetadata {
	artist := station.Tagline
	if artist == "" {
		artist = station.Genre
	}
	if artist == "" {
		artist = "Live Radio"
	}

	return common.TrackMetadata{
		Title:       station.DisplayName,
		Artist:      artist,
		IsAd:        false,
		IsLive:      true,
		StationID:   station.StationID,
		StationName: station.DisplayName,
		Timestamp:   time.Now(),
	}
}

// persist upserts the record, swallowing failures so a broken store
// never blocks the response
func (d *Dispatcher) persist(ctx context.Context, logger logging.Logger, record common.TrackMetadata) {
	if d.store == nil {
		return
	}
	if err := d.store.UpdateNowPlaying(ctx, record); err != nil {
		metrics.PersistenceFailures.Inc()
		logger.Warn("Persistence write failed", logging.Fields{
			"error": err.Error(),
		})
	}
}
