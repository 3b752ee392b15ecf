package common

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// UserAgent is sent on every upstream metadata request. Some station
// APIs reject requests with no or default Go user agents.
const UserAgent = "SkyWave-NowPlaying/1.0"

// maxBodySize caps upstream response reads; station APIs return small
// payloads and a runaway body should never exhaust memory.
const maxBodySize = 256 * 1024

// FetchBody performs a single GET against an upstream metadata URL and
// returns the response body and content type. Non-2xx responses are
// reported as a SourceError with ErrCodeConnection.
func FetchBody(ctx context.Context, client *http.Client, apiType APIType, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", NewSourceError(apiType, url, ErrCodeConnection, "failed to create request", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", NewSourceError(apiType, url, ErrCodeTimeout, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", NewSourceError(apiType, url, ErrCodeConnection,
			"unexpected status "+resp.Status, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", NewSourceError(apiType, url, ErrCodeConnection, "failed to read body", err)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	return body, contentType, nil
}

// SplitTitleArtist parses combined "Artist - Title" strings that some
// upstream APIs return in a single field
func SplitTitleArtist(combined string) (artist, title string) {
	combined = strings.TrimSpace(combined)
	if combined == "" {
		return "", ""
	}

	separators := []string{" - ", " – ", " — ", ": ", " | ", " / "}
	for _, sep := range separators {
		if strings.Contains(combined, sep) {
			parts := strings.SplitN(combined, sep, 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
			}
		}
	}

	return "", combined
}

// CleanField trims whitespace and surrounding quotes from a metadata field
func CleanField(value string) string {
	value = strings.Trim(value, "\"'")
	return strings.TrimSpace(value)
}

// IsValidURL performs basic URL validation
func IsValidURL(url string) bool {
	url = strings.TrimSpace(url)
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// ExtractContentType extracts the main content type without parameters
func ExtractContentType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}
