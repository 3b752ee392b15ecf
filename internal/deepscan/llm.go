package deepscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

const classifyPrompt = `You are analyzing a transcript of a live radio broadcast segment.
Decide whether the segment is an advertisement or regular programming (music, talk, news).

Consider these cues: promotional language, calls to action ("call now", "visit"),
pricing or deal mentions, brand or company names, phone numbers or web addresses,
and "sponsored by" phrasing.

Respond with ONLY a JSON object, no other text:
{"is_ad": true|false, "confidence": 0.0-1.0, "category": "...", "brand": "..."}

Omit category and brand when the segment is not an advertisement.`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type modelVerdict struct {
	IsAd       bool    `json:"is_ad"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
	Brand      string  `json:"brand"`
}

// classifyTranscript asks the language model for a structured verdict
// on the transcript. Confidence is clamped to [0, 1] regardless of what
// the model emits.
func (s *Scanner) classifyTranscript(ctx context.Context, transcript string) (common.AdVerdict, error) {
	payload := chatRequest{
		Model: s.cfg.LLMModel,
		Messages: []chatMessage{
			{Role: "system", Content: classifyPrompt},
			{Role: "user", Content: "Transcript:\n" + transcript},
		},
		MaxTokens:   200,
		Temperature: 0,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return common.AdVerdict{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return common.AdVerdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return common.AdVerdict{}, fmt.Errorf("classification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return common.AdVerdict{}, fmt.Errorf("classification status %d: %s", resp.StatusCode, string(b))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return common.AdVerdict{}, fmt.Errorf("decode classification response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return common.AdVerdict{}, fmt.Errorf("no choices in classification response")
	}

	return parseModelVerdict(parsed.Choices[0].Message.Content)
}

// parseModelVerdict extracts the JSON object from the model output,
// tolerating code fences and surrounding prose
func parseModelVerdict(content string) (common.AdVerdict, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return common.AdVerdict{}, fmt.Errorf("no JSON object in model output")
	}

	var mv modelVerdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &mv); err != nil {
		return common.AdVerdict{}, fmt.Errorf("parse model verdict: %w", err)
	}

	return common.AdVerdict{
		IsAd:       mv.IsAd,
		Confidence: clamp01(mv.Confidence),
		Category:   strings.TrimSpace(mv.Category),
		Brand:      strings.TrimSpace(mv.Brand),
		Reason:     "transcript classified by language model",
		Tier:       common.TierDeep,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
