package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/crediblehq/credible/internal/cache"
)

// RobotsChecker checks robots.txt compliance. Raw robots.txt bodies go
// through the shared cache so batch runs against one host fetch it
// once.
type RobotsChecker struct {
	httpClient *http.Client
	userAgent  string
	cache      cache.Cache // nil falls back to refetching
	cacheTTL   time.Duration
}

// NewRobotsChecker creates a robots.txt checker
func NewRobotsChecker(userAgent string, timeout time.Duration, c cache.Cache, cacheTTL time.Duration) *RobotsChecker {
	return &RobotsChecker{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

// CanFetch reports whether rawURL may be fetched under the host's
// robots.txt. An unreachable robots.txt allows by default.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	body, err := r.robotsBody(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return true, nil
	}

	return data.TestAgent(parsed.Path, r.userAgent), nil
}

func (r *RobotsChecker) robotsBody(ctx context.Context, scheme, host string) ([]byte, error) {
	key := cache.Key("robots", host)
	if r.cache != nil {
		if body, found := r.cache.Get(key); found {
			return body, nil
		}
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("robots.txt status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(key, body, r.cacheTTL)
	}
	return body, nil
}
