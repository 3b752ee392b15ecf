package deepscan

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// maxSampleBytes caps a capture window; a 10s window of a 320kbps
// stream is roughly 400KB
const maxSampleBytes = 1 << 20

// CaptureSample opens the live stream and buffers whatever bytes
// arrive within the window. The result is trimmed to the first MPEG
// frame-sync boundary so the transcription service receives decodable
// audio rather than a mid-frame fragment.
func CaptureSample(ctx context.Context, client *http.Client, streamURL string, window time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", common.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("stream returned status " + resp.Status)
	}

	sample := make([]byte, 0, 512*1024)
	buf := make([]byte, 16*1024)
	for len(sample) < maxSampleBytes {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			sample = append(sample, buf[:n]...)
		}
		if err != nil {
			// The window deadline surfaces here as a read error; the
			// bytes gathered so far are the sample.
			break
		}
	}

	sample = trimToFrameSync(sample)
	if len(sample) == 0 {
		return nil, errors.New("no audio bytes captured within window")
	}
	return sample, nil
}

// trimToFrameSync drops leading bytes up to the first MPEG audio frame
// sync word (11 set bits). Icecast connections join mid-frame and
// decoders tolerate that poorly.
func trimToFrameSync(sample []byte) []byte {
	for i := 0; i+1 < len(sample); i++ {
		if sample[i] == 0xFF && sample[i+1]&0xE0 == 0xE0 {
			return sample[i:]
		}
	}
	return sample
}
