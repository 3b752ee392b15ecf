// Package deepscan implements the third classification tier: capture a
// short window of the live stream, transcribe it, and ask a language
// model for a structured ad verdict. The tier is expensive and rate
// sensitive, so it never runs on the polling path; it is reachable only
// through the diagnostic endpoint and the detect subcommand, and it is
// disabled entirely when no credential is configured.
package deepscan

import (
	"context"
	"net/http"
	"time"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// DefaultSampleWindow is how much live audio is buffered per scan
const DefaultSampleWindow = 10 * time.Second

// Config holds the external service settings for the deep tier. An
// empty APIKey disables the tier; that is an expected deployment state,
// not an error.
type Config struct {
	Endpoint     string        // OpenAI-compatible API base URL
	APIKey       string        //
	STTModel     string        // speech-to-text model name
	LLMModel     string        // classification model name
	SampleWindow time.Duration //
}

// Enabled reports whether the deep tier can run
func (c Config) Enabled() bool {
	return c.APIKey != ""
}

// Result carries a deep-scan verdict together with the transcript it
// was derived from
type Result struct {
	Verdict    common.AdVerdict `json:"verdict"`
	Transcript string           `json:"transcript,omitempty"`
}

// Scanner runs deep scans against live streams
type Scanner struct {
	cfg    Config
	client *http.Client
	logger logging.Logger
}

// NewScanner creates a deep-scan runner. The HTTP client carries no
// timeout of its own; every call site bounds itself with a context.
func NewScanner(cfg Config, logger logging.Logger) *Scanner {
	if cfg.SampleWindow <= 0 {
		cfg.SampleWindow = DefaultSampleWindow
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.openai.com/v1"
	}
	if cfg.STTModel == "" {
		cfg.STTModel = "whisper-1"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "gpt-4o-mini"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scanner{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
	}
}

// Enabled reports whether the scanner has a credential configured
func (s *Scanner) Enabled() bool {
	return s.cfg.Enabled()
}

// Scan captures a sample window from the stream, transcribes it, and
// classifies the transcript. Every failure path yields a negative
// zero-confidence verdict: the tier fails closed and never claims a
// detection it could not complete.
func (s *Scanner) Scan(ctx context.Context, streamURL string) (Result, error) {
	if !s.cfg.Enabled() {
		return Result{}, nil
	}

	logger := s.logger.WithFields(logging.Fields{
		"component":  "deepscan",
		"stream_url": streamURL,
	})

	sample, err := CaptureSample(ctx, s.client, streamURL, s.cfg.SampleWindow)
	if err != nil {
		logger.Warn("Audio capture failed", logging.Fields{"error": err.Error()})
		return Result{}, err
	}
	logger.Debug("Captured stream sample", logging.Fields{
		"bytes":      len(sample),
		"window_sec": s.cfg.SampleWindow.Seconds(),
	})

	sttCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	transcript, err := s.transcribe(sttCtx, sample)
	if err != nil {
		logger.Warn("Transcription failed", logging.Fields{"error": err.Error()})
		return Result{}, err
	}

	llmCtx, cancelLLM := context.WithTimeout(ctx, 30*time.Second)
	defer cancelLLM()
	verdict, err := s.classifyTranscript(llmCtx, transcript)
	if err != nil {
		logger.Warn("Transcript classification failed", logging.Fields{"error": err.Error()})
		return Result{Transcript: transcript}, err
	}

	logger.Info("Deep scan completed", logging.Fields{
		"is_ad":      verdict.IsAd,
		"confidence": verdict.Confidence,
		"brand":      verdict.Brand,
		"category":   verdict.Category,
	})

	return Result{Verdict: verdict, Transcript: transcript}, nil
}
