package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
)

// ogImagePatterns match the og:image meta tag in either attribute order and
// quote style. Site markup in the wild is not consistent enough for one form.
var ogImagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`<meta[^>]+property="og:image"[^>]+content="([^"]+)"`),
	regexp.MustCompile(`<meta[^>]+content="([^"]+)"[^>]+property="og:image"`),
	regexp.MustCompile(`<meta[^>]+property='og:image'[^>]+content='([^']+)'`),
	regexp.MustCompile(`<meta[^>]+name="og:image"[^>]+content="([^"]+)"`),
}

// maxOGBodyBytes bounds how much of a page is read while looking for the
// meta tag, which sits in <head>.
const maxOGBodyBytes = 512 << 10

// OGPreview is the resolved preview image for a work's website.
type OGPreview struct {
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`
}

// OpenGraphService resolves og:image preview URLs for work websites, with a
// cache in front so card hovers do not hammer third-party sites.
type OpenGraphService struct {
	client    *http.Client
	cache     *CacheService
	logger    *zap.Logger
	userAgent string
	cacheTTL  time.Duration
}

// NewOpenGraphService constructs an OpenGraph service.
func NewOpenGraphService(cache *CacheService, fetchTimeout, cacheTTL time.Duration, userAgent string, logger *zap.Logger) *OpenGraphService {
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenGraphService{
		client:    &http.Client{Timeout: fetchTimeout},
		cache:     cache,
		logger:    logger,
		userAgent: userAgent,
		cacheTTL:  cacheTTL,
	}
}

// Preview fetches the target page and extracts its og:image URL. A page
// without the tag yields a preview with an empty image URL, which is also
// cached so repeated lookups stay cheap.
func (s *OpenGraphService) Preview(ctx context.Context, target string) (*OGPreview, error) {
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "url must be an absolute http or https URL")
	}

	cacheKey := fmt.Sprintf("ogp:%s", target)
	if s.cache != nil {
		var cached OGPreview
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	preview := &OGPreview{URL: target}
	imageURL, err := s.fetchImageURL(ctx, parsed)
	if err != nil {
		return nil, err
	}
	preview.ImageURL = imageURL

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, preview, s.cacheTTL); err != nil {
			s.logger.Warn("cache og preview", zap.Error(err), zap.String("url", target))
		}
	}
	return preview, nil
}

func (s *OpenGraphService) fetchImageURL(ctx context.Context, page *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.String(), nil)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build preview request")
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("og fetch failed", zap.String("url", page.String()), zap.Error(err))
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOGBodyBytes))
	if err != nil {
		return "", nil
	}

	for _, pattern := range ogImagePatterns {
		if match := pattern.FindSubmatch(body); match != nil {
			return resolveImageURL(page, string(match[1])), nil
		}
	}
	return "", nil
}

// resolveImageURL makes protocol-relative and path-relative image URLs
// absolute against the fetched page.
func resolveImageURL(page *url.URL, image string) string {
	ref, err := url.Parse(image)
	if err != nil {
		return ""
	}
	return page.ResolveReference(ref).String()
}
