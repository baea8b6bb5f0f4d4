package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/crediblehq/credible/internal/cache"
	"github.com/crediblehq/credible/internal/model"
)

const articleHTML = `<html><head><title>t</title><script>var x = 1;</script></head><body>
<nav>Home | News</nav>
<article>
<h1>Economy Report</h1>
<p>The finance minister said the economy grew by 7.2% last year.</p>
<p>However, experts have disputed the figures.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func testConfig() model.FetchConfig {
	cfg := model.DefaultConfig().Fetch
	cfg.RespectRobots = false
	cfg.RequestsPerSecond = 1000
	return cfg
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText(articleHTML)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	if !strings.Contains(text, "economy grew by 7.2%") {
		t.Errorf("article text missing: %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Errorf("script content leaked: %q", text)
	}
	if strings.Contains(text, "Home | News") || strings.Contains(text, "Copyright") {
		t.Errorf("nav/footer content leaked: %q", text)
	}

	// Paragraphs must stay separated for the segmenter
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) < 3 {
		t.Errorf("expected separated blocks, got %d: %q", len(paragraphs), text)
	}
}

func TestFetch(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	f := New(testConfig(), cache.NewMemory(time.Minute, time.Minute), time.Minute)

	article, err := f.Fetch(context.Background(), server.URL+"/news/economy-report")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if article.Subject != "economy report" {
		t.Errorf("subject = %q", article.Subject)
	}
	if !strings.Contains(article.Text, "economy grew by 7.2%") {
		t.Errorf("text = %q", article.Text)
	}

	// Cached on the second fetch
	if _, err := f.Fetch(context.Background(), server.URL+"/news/economy-report"); err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected 1 upstream hit, got %d", hits)
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := New(testConfig(), nil, 0)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.RespectRobots = true
	f := New(cfg, nil, 0)

	if _, err := f.Fetch(context.Background(), server.URL+"/private/report"); !errors.Is(err, ErrRobotsDisallowed) {
		t.Errorf("error = %v, want ErrRobotsDisallowed", err)
	}

	if _, err := f.Fetch(context.Background(), server.URL+"/public/report"); err != nil {
		t.Errorf("allowed path rejected: %v", err)
	}
}

func TestSubjectFromURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://example.com/news/fire_breaks_out.html", "fire breaks out"},
		{"https://example.com/", "example.com"},
		{"https://example.com/economy-grew-again", "economy grew again"},
	}
	for _, tc := range cases {
		if got := subjectFromURL(tc.in); got != tc.want {
			t.Errorf("subjectFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
