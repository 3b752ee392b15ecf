package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// maxRequestBody bounds JSON request bodies
const maxRequestBody = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// handleNowPlaying serves the current record for a station. Unknown or
// absent station ids resolve to the default station; the endpoint never
// fails on upstream trouble.
func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station")
	record := s.dispatcher.NowPlaying(r.Context(), stationID)
	writeJSON(w, http.StatusOK, record)
}

type detectAdRequest struct {
	StreamURL string `json:"stream_url"`
	Station   string `json:"station"`
}

// handleDetectAd runs a deep scan against a live stream and returns
// the transcript alongside the verdict. Diagnostic only; the polling
// path never reaches this tier.
func (s *Server) handleDetectAd(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil || !s.scanner.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "deep scan is not configured")
		return
	}

	var req detectAdRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	streamURL := req.StreamURL
	if streamURL == "" {
		station := s.dispatcher.Resolve(req.Station)
		streamURL = station.StreamURL
	}
	if streamURL == "" {
		writeError(w, http.StatusBadRequest, "stream_url or a station with one is required")
		return
	}

	result, err := s.scanner.Scan(r.Context(), streamURL)
	if err != nil {
		s.logger.Warn("Deep scan failed", logging.Fields{
			"stream_url": streamURL,
			"error":      err.Error(),
		})
		writeError(w, http.StatusBadGateway, "deep scan failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type testAdDetectionRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
}

// handleTestAdDetection classifies an arbitrary metadata snapshot with
// the metadata-only tiers. Used by operators to probe the rules table.
func (s *Server) handleTestAdDetection(w http.ResponseWriter, r *http.Request) {
	var req testAdDetectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" && req.Artist == "" && req.Description == "" {
		writeError(w, http.StatusBadRequest, "title, artist, or description is required")
		return
	}

	verdict := s.classifier.Classify(req.Title, req.Artist, req.Description)
	writeJSON(w, http.StatusOK, verdict)
}

type forceAdDetectionRequest struct {
	Station string `json:"station"`
	Brand   string `json:"brand"`
}

// handleForceAdDetection writes a branded ad record for a station,
// bypassing classification. Operator override for demos and incident
// response.
func (s *Server) handleForceAdDetection(w http.ResponseWriter, r *http.Request) {
	var req forceAdDetectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record := s.dispatcher.ForceAd(r.Context(), req.Station, req.Brand)
	writeJSON(w, http.StatusOK, record)
}

// handleStations lists the configured station table
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Stations())
}

// handleHistory returns the recent distinct tracks for a station
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not available")
		return
	}

	station := s.dispatcher.Resolve(r.URL.Query().Get("station"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tracks, err := s.history.RecentHistory(r.Context(), station.StationID, limit)
	if err != nil {
		s.logger.Error("History read failed", logging.Fields{
			"station": station.StationID,
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if tracks == nil {
		tracks = []common.TrackMetadata{}
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
