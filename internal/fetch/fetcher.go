// Package fetch retrieves article pages for the check and batch
// commands: robots-aware HTTP fetching, size-capped reads and
// visible-text extraction that feeds the segmenter.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crediblehq/credible/internal/cache"
	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/worker"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching the
// requested path
var ErrRobotsDisallowed = fmt.Errorf("disallowed by robots.txt")

// Article is a fetched page reduced to analyzable text
type Article struct {
	URL     string `json:"url"` // Final URL after redirects
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Fetcher fetches article pages
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker // nil when robots checking is disabled
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// New creates a fetcher. Pass a nil cache to disable page caching.
func New(cfg model.FetchConfig, c cache.Cache, cacheTTL time.Duration) *Fetcher {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   worker.NewLimiter(rps, cfg.Burst),
		cache:     c,
		cacheTTL:  cacheTTL,
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout, c, cacheTTL)
	}
	return f
}

// Fetch retrieves one article. The returned text has block elements
// separated by blank lines so paragraph-aware segmentation works.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	key := cache.Key("page", rawURL)
	if f.cache != nil {
		if data, found := f.cache.Get(key); found {
			return &Article{URL: rawURL, Subject: subjectFromURL(rawURL), Text: string(data)}, nil
		}
	}

	if f.robots != nil {
		allowed, err := f.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, rawURL)
		}
	}

	if err := f.limiter.Wait(ctx, parsed.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	text, err := ExtractText(string(body))
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	if f.cache != nil {
		f.cache.Set(key, []byte(text), f.cacheTTL)
	}

	finalURL := resp.Request.URL.String()
	return &Article{
		URL:     finalURL,
		Subject: subjectFromURL(finalURL),
		Text:    text,
	}, nil
}

// subjectFromURL de-slugifies the last path segment
func subjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return last
}
