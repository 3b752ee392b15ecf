// Package server exposes the now-playing pipeline over HTTP. Routing
// stays on the standard mux; the API surface is a handful of JSON
// endpoints polled by web clients.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skywavefm/nowplaying/internal/deepscan"
	"github.com/skywavefm/nowplaying/internal/dispatch"
	"github.com/skywavefm/nowplaying/pkg/adscan"
	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// History is the read side of the persistence layer used by the
// history endpoint
type History interface {
	RecentHistory(ctx context.Context, stationID string, limit int) ([]common.TrackMetadata, error)
}

// Config wires the server's collaborators
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Dispatcher *dispatch.Dispatcher
	Classifier *adscan.Classifier
	Scanner    *deepscan.Scanner
	History    History
	Logger     logging.Logger
}

// Server is the HTTP front end
type Server struct {
	httpServer *http.Server
	dispatcher *dispatch.Dispatcher
	classifier *adscan.Classifier
	scanner    *deepscan.Scanner
	history    History
	logger     logging.Logger
}

// New creates the server and installs its routes
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	s := &Server{
		dispatcher: cfg.Dispatcher,
		classifier: cfg.Classifier,
		scanner:    cfg.Scanner,
		history:    cfg.History,
		logger:     logger.WithFields(logging.Fields{"component": "server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/now-playing", s.handleNowPlaying)
	mux.HandleFunc("POST /api/detect-ad", s.handleDetectAd)
	mux.HandleFunc("POST /api/test-ad-detection", s.handleTestAdDetection)
	mux.HandleFunc("POST /api/force-ad-detection", s.handleForceAdDetection)
	mux.HandleFunc("GET /api/stations", s.handleStations)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.recoverPanics(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the routed handler for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving requests until the listener fails or
// the server is shut down
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", logging.Fields{
		"addr": s.httpServer.Addr,
	})
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// recoverPanics converts handler panics into a plain 500 so one bad
// request cannot take the process down
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error("Handler panicked", logging.Fields{
					"path":  r.URL.Path,
					"panic": v,
				})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
