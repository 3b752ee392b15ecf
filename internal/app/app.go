// Package app assembles the service from its components and owns the
// process lifecycle: one App per process, built from configuration,
// torn down on context cancellation.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skywavefm/nowplaying/configs"
	"github.com/skywavefm/nowplaying/internal/deepscan"
	"github.com/skywavefm/nowplaying/internal/dispatch"
	"github.com/skywavefm/nowplaying/internal/server"
	"github.com/skywavefm/nowplaying/internal/store"
	"github.com/skywavefm/nowplaying/pkg/adscan"
	"github.com/skywavefm/nowplaying/pkg/artwork"
	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// App holds the assembled service
type App struct {
	cfg        *configs.Config
	logger     logging.Logger
	stations   map[string]*common.StationDescriptor
	dispatcher *dispatch.Dispatcher
	scanner    *deepscan.Scanner
	store      *store.Store
	server     *server.Server
}

// New builds the full component graph from configuration
func New(cfg *configs.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	stations, err := configs.LoadStations(cfg.Stations.File)
	if err != nil {
		return nil, err
	}

	defaultStation := cfg.Stations.Default
	if defaultStation == "" {
		for id := range stations {
			defaultStation = id
			break
		}
	}
	if _, ok := stations[defaultStation]; !ok {
		return nil, fmt.Errorf("default station %q is not in the station table", defaultStation)
	}

	db, err := store.Open(filepath.Join(cfg.DataDir, "nowplaying.db"))
	if err != nil {
		return nil, err
	}

	factory := metadata.NewFactory(cfg.Poll.FetchTimeout, logger)
	classifier := adscan.NewClassifier(logger)
	enricher := artwork.NewEnricher(cfg.Artwork.Timeout, logger)
	logos := artwork.NewLogoResolver(cfg.Artwork.LogoTimeout, logger)

	scanner := deepscan.NewScanner(deepscan.Config{
		Endpoint:     cfg.DeepScan.Endpoint,
		APIKey:       cfg.DeepScan.APIKey,
		STTModel:     cfg.DeepScan.STTModel,
		LLMModel:     cfg.DeepScan.LLMModel,
		SampleWindow: cfg.DeepScan.SampleWindow,
	}, logger)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		Stations:       stations,
		DefaultStation: defaultStation,
		Factory:        factory,
		Classifier:     classifier,
		Enricher:       enricher,
		Logos:          logos,
		Cache:          dispatch.NewTTLCache(cfg.Poll.CacheTTL),
		Store:          db,
		Logger:         logger,
		PollTimeout:    cfg.Poll.PollTimeout,
	})

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Dispatcher:   dispatcher,
		Classifier:   classifier,
		Scanner:      scanner,
		History:      db,
		Logger:       logger,
	})

	return &App{
		cfg:        cfg,
		logger:     logger,
		stations:   stations,
		dispatcher: dispatcher,
		scanner:    scanner,
		store:      db,
		server:     srv,
	}, nil
}

// Dispatcher exposes the pipeline for the CLI subcommands
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// Scanner exposes the deep-scan runner for the CLI subcommands
func (a *App) Scanner() *deepscan.Scanner {
	return a.scanner
}

// Stations exposes the station table for the CLI subcommands
func (a *App) Stations() map[string]*common.StationDescriptor {
	return a.stations
}

// Run serves HTTP and keeps the station cache warm until ctx is
// cancelled, then shuts down cleanly
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.ListenAndServe()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.cfg.Poll.RefreshEnabled {
		g.Go(func() error {
			a.runRefresher(gctx)
			return nil
		})
	}

	err := g.Wait()
	if closeErr := a.store.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Close releases resources for callers that never invoke Run
func (a *App) Close() error {
	return a.store.Close()
}

// runRefresher polls every station on a fixed cadence so listener
// requests land on warm cache entries instead of paying upstream
// latency. Each sweep bounds its fan-out with a worker-limited group.
func (a *App) runRefresher(ctx context.Context) {
	interval := a.cfg.Poll.RefreshInterval
	logger := a.logger.WithFields(logging.Fields{"component": "refresher"})
	logger.Info("Background refresher started", logging.Fields{
		"interval": interval.String(),
		"stations": len(a.stations),
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Background refresher stopped")
			return
		case <-ticker.C:
			a.refreshAll(ctx)
		}
	}
}

func (a *App) refreshAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	workers := a.cfg.Poll.RefreshWorkers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)

	for id := range a.stations {
		g.Go(func() error {
			a.dispatcher.NowPlaying(gctx, id)
			return nil
		})
	}
	_ = g.Wait()
}
