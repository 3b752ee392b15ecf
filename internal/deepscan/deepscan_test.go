package deepscan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

func TestParseModelVerdict(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantIsAd bool
		wantConf float64
		wantErr  bool
	}{
		{
			name:     "plain json",
			content:  `{"is_ad": true, "confidence": 0.92, "category": "insurance", "brand": "Geico"}`,
			wantIsAd: true,
			wantConf: 0.92,
		},
		{
			name:     "code fenced",
			content:  "```json\n{\"is_ad\": false, \"confidence\": 0.1}\n```",
			wantIsAd: false,
			wantConf: 0.1,
		},
		{
			name:     "surrounding prose",
			content:  `Here is my analysis: {"is_ad": true, "confidence": 0.7} Hope this helps!`,
			wantIsAd: true,
			wantConf: 0.7,
		},
		{
			name:     "confidence above one is clamped",
			content:  `{"is_ad": true, "confidence": 37.5}`,
			wantIsAd: true,
			wantConf: 1.0,
		},
		{
			name:     "negative confidence is clamped",
			content:  `{"is_ad": false, "confidence": -0.3}`,
			wantIsAd: false,
			wantConf: 0.0,
		},
		{
			name:    "no json object",
			content: "I cannot classify this segment.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			content: `{"is_ad": maybe}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := parseModelVerdict(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIsAd, verdict.IsAd)
			assert.InDelta(t, tt.wantConf, verdict.Confidence, 0.001)
			assert.Equal(t, common.TierDeep, verdict.Tier)
			assert.GreaterOrEqual(t, verdict.Confidence, 0.0)
			assert.LessOrEqual(t, verdict.Confidence, 1.0)
		})
	}
}

func TestTrimToFrameSync(t *testing.T) {
	sample := []byte{0x00, 0x12, 0x34, 0xFF, 0xFB, 0x90, 0x00}
	trimmed := trimToFrameSync(sample)
	assert.Equal(t, []byte{0xFF, 0xFB, 0x90, 0x00}, trimmed)

	// No sync word found: the sample passes through untouched
	raw := []byte{0x01, 0x02, 0x03}
	assert.Equal(t, raw, trimToFrameSync(raw))
}

func TestScannerDisabledWithoutCredential(t *testing.T) {
	scanner := NewScanner(Config{}, logging.NewTestLogger())
	assert.False(t, scanner.Enabled())

	result, err := scanner.Scan(context.Background(), "http://streams.example/live")
	assert.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestScanEndToEnd(t *testing.T) {
	// One fake backend serves the stream, the transcription endpoint,
	// and the chat endpoint
	mux := http.NewServeMux()

	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		audio := append([]byte{0xFF, 0xFB}, []byte(strings.Repeat("a", 4096))...)
		w.Write(audio)
	})

	mux.HandleFunc("/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.Header.Get("Authorization"), "Bearer test-key")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		json.NewEncoder(w).Encode(map[string]string{
			"text": "Call now for a free quote from Geico.",
		})
	})

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Geico")

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{
					"content": `{"is_ad": true, "confidence": 0.95, "category": "insurance", "brand": "Geico"}`,
				}},
			},
		})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	scanner := NewScanner(Config{
		Endpoint:     server.URL,
		APIKey:       "test-key",
		SampleWindow: 300 * time.Millisecond,
	}, logging.NewTestLogger())

	result, err := scanner.Scan(context.Background(), server.URL+"/live")

	require.NoError(t, err)
	assert.True(t, result.Verdict.IsAd)
	assert.Equal(t, "Geico", result.Verdict.Brand)
	assert.Equal(t, "insurance", result.Verdict.Category)
	assert.Equal(t, common.TierDeep, result.Verdict.Tier)
	assert.Contains(t, result.Transcript, "free quote")
}

func TestScanTranscriptionFailureFailsClosed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xFF, 0xFB, 0x01, 0x02})
	})
	mux.HandleFunc("/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	scanner := NewScanner(Config{
		Endpoint:     server.URL,
		APIKey:       "test-key",
		SampleWindow: 200 * time.Millisecond,
	}, logging.NewTestLogger())

	result, err := scanner.Scan(context.Background(), server.URL+"/live")

	assert.Error(t, err)
	assert.False(t, result.Verdict.IsAd)
	assert.Zero(t, result.Verdict.Confidence)
}
