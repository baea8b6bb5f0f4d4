// Package transcript loads YouTube caption tracks so spoken-word video
// content flows through the same claim pipeline as article text.
package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/crediblehq/credible/internal/cache"
	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/worker"
)

// ErrNoVideoID is returned when no YouTube video ID can be extracted
// from the input
var ErrNoVideoID = errors.New("no YouTube video ID in URL")

// ErrNoTranscript is returned when a video has no caption track
// (captions disabled, video private or unavailable)
var ErrNoTranscript = errors.New("no transcript available")

const (
	defaultBaseURL = "https://video.google.com/timedtext"
	limiterKey     = "youtube"
)

// videoIDPatterns covers the shapes transcript URLs arrive as: watch
// links, shortened youtu.be links, embeds and bare 11-character IDs.
// Order matters; the first match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^([0-9A-Za-z_-]{11})$`),
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL
// or accepts a bare ID
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Transcript is a fetched caption track reduced to analyzable text
type Transcript struct {
	VideoID  string `json:"video_id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

// Loader fetches caption tracks from the timedtext endpoint
type Loader struct {
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration

	// BaseURL is the timedtext endpoint, overridable for tests
	BaseURL string
}

// New creates a loader. Pass a nil cache to disable transcript caching.
func New(cfg model.FetchConfig, c cache.Cache, cacheTTL time.Duration) *Loader {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Loader{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		limiter:    worker.NewLimiter(rps, cfg.Burst),
		cache:      c,
		cacheTTL:   cacheTTL,
		BaseURL:    defaultBaseURL,
	}
}

// Load fetches the caption track for a video URL or bare ID, preferring
// English and falling back to the first available language. The
// returned text is one block of space-joined caption lines, ready for
// segmentation.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Transcript, error) {
	videoID, ok := ExtractVideoID(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoVideoID, rawURL)
	}

	key := cache.Key("transcript", videoID)
	if l.cache != nil {
		if data, found := l.cache.Get(key); found {
			var tr Transcript
			if err := json.Unmarshal(data, &tr); err == nil {
				return &tr, nil
			}
			l.cache.Delete(key)
		}
	}

	lang, err := l.pickLanguage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	text, err := l.fetchTrack(ctx, videoID, lang)
	if err != nil {
		return nil, err
	}

	tr := &Transcript{VideoID: videoID, Language: lang, Text: text}
	if l.cache != nil {
		if data, err := json.Marshal(tr); err == nil {
			l.cache.Set(key, data, l.cacheTTL)
		}
	}
	return tr, nil
}

type trackList struct {
	Tracks []struct {
		LangCode string `xml:"lang_code,attr"`
		Name     string `xml:"name,attr"`
	} `xml:"track"`
}

// pickLanguage lists the video's caption tracks and selects English
// when present, otherwise the first track
func (l *Loader) pickLanguage(ctx context.Context, videoID string) (string, error) {
	body, err := l.get(ctx, url.Values{"type": {"list"}, "v": {videoID}})
	if err != nil {
		return "", fmt.Errorf("list caption tracks: %w", err)
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("parse track list: %w", err)
	}
	if len(list.Tracks) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	}

	for _, track := range list.Tracks {
		if strings.HasPrefix(strings.ToLower(track.LangCode), "en") {
			return track.LangCode, nil
		}
	}
	return list.Tracks[0].LangCode, nil
}

type captionTrack struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

func (l *Loader) fetchTrack(ctx context.Context, videoID, lang string) (string, error) {
	body, err := l.get(ctx, url.Values{"v": {videoID}, "lang": {lang}})
	if err != nil {
		return "", fmt.Errorf("fetch caption track: %w", err)
	}

	var track captionTrack
	if err := xml.Unmarshal(body, &track); err != nil {
		return "", fmt.Errorf("parse caption track: %w", err)
	}

	var lines []string
	for _, line := range track.Lines {
		// Caption text arrives double-escaped: the XML decoder unwraps
		// one level, UnescapeString the second.
		text := strings.Join(strings.Fields(html.UnescapeString(line.Text)), " ")
		if text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: empty caption track for %s", ErrNoTranscript, videoID)
	}

	return strings.Join(lines, " "), nil
}

func (l *Loader) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := l.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
}

// WatchURL renders the canonical watch link for a video ID
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
