package artwork

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

const logoCDN = "https://logo.clearbit.com/"

// LogoResolver guesses a company domain from a brand name and checks a
// logo CDN for a matching asset
type LogoResolver struct {
	client   *http.Client
	endpoint string
	logger   logging.Logger
}

// NewLogoResolver creates a logo resolver with the given lookup timeout
func NewLogoResolver(timeout time.Duration, logger logging.Logger) *LogoResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LogoResolver{
		client:   &http.Client{Timeout: timeout},
		endpoint: logoCDN,
		logger:   logger,
	}
}

// NewLogoResolverWithEndpoint creates a resolver against a custom CDN
// base URL, used by tests
func NewLogoResolverWithEndpoint(endpoint string, timeout time.Duration, logger logging.Logger) *LogoResolver {
	r := NewLogoResolver(timeout, logger)
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	r.endpoint = endpoint
	return r
}

// Resolve returns a logo URL for the brand, or the advertisement
// sentinel when no logo can be confirmed. The domain guess is
// best-effort ("Capital One" -> capitalone.com).
func (r *LogoResolver) Resolve(ctx context.Context, brand string) string {
	domain := GuessDomain(brand)
	if domain == "" {
		return common.ArtworkAdSentinel
	}

	logoURL := r.endpoint + domain

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, logoURL, nil)
	if err != nil {
		return common.ArtworkAdSentinel
	}
	req.Header.Set("User-Agent", common.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("Logo lookup failed", logging.Fields{
			"brand": brand,
			"error": err.Error(),
		})
		return common.ArtworkAdSentinel
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return common.ArtworkAdSentinel
	}
	return logoURL
}

// GuessDomain lowercases a brand name, strips everything but letters
// and digits, and appends .com
func GuessDomain(brand string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(brand)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return b.String() + ".com"
}
