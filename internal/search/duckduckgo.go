package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/crediblehq/credible/internal/cache"
	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/worker"
)

const ddgLimiterKey = "duckduckgo"

// DuckDuckGo implements Provider against the DuckDuckGo HTML endpoint,
// which needs no API key. Requests are rate limited and results cached.
type DuckDuckGo struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxResults int
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewDuckDuckGo creates a DuckDuckGo provider. Pass a nil cache to
// disable result caching.
func NewDuckDuckGo(cfg model.SearchConfig, c cache.Cache, cacheTTL time.Duration) *DuckDuckGo {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &DuckDuckGo{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxResults: maxResults,
		limiter:    worker.NewLimiter(rps, cfg.Burst),
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

// Search runs one query and returns up to MaxResults ranked snippets.
// No matches is ([], nil), not an error.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	key := cache.Key("search", query)
	if d.cache != nil {
		if data, found := d.cache.Get(key); found {
			var results []Result
			if err := json.Unmarshal(data, &results); err == nil {
				return results, nil
			}
			d.cache.Delete(key)
		}
	}

	if err := d.limiter.Wait(ctx, ddgLimiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	results, err := parseResults(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	if len(results) > d.maxResults {
		results = results[:d.maxResults]
	}

	if d.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			d.cache.Set(key, data, d.cacheTTL)
		}
	}

	return results, nil
}

// parseResults walks the result page: each result link carries class
// result__a, its snippet class result__snippet.
func parseResults(r io.Reader) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var results []Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				results = append(results, Result{
					Title: nodeText(n),
					URL:   resolveRedirect(attr(n, "href")),
				})
				return
			case hasClass(n, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = nodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return DedupByURL(results), nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		if unescaped, err := url.QueryUnescape(target); err == nil {
			return unescaped
		}
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates the text nodes under n
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
