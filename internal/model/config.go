package model

import "time"

// Config is the complete tool configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the language-model collaborator used for
// sentence labeling, field extraction and verdict synthesis
type LLMConfig struct {
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"api_key,omitempty"`
	BaseURL   string        `yaml:"base_url,omitempty"` // OpenAI-compatible endpoint override
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// SearchConfig configures the web search provider
type SearchConfig struct {
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	MaxResults        int           `yaml:"max_results"` // Per-query result count
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// FetchConfig configures article fetching for the check/batch commands
type FetchConfig struct {
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// ConcurrencyConfig bounds the worker pools
type ConcurrencyConfig struct {
	SentenceWorkers int `yaml:"sentence_workers"` // Classification+normalization
	VerifyWorkers   int `yaml:"verify_workers"`   // Claim verification
	BatchWorkers    int `yaml:"batch_workers"`    // URL batch processing
}

// CacheConfig configures the in-memory caches for search results and
// fetched pages
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			Timeout:   30 * time.Second,
			MaxTokens: 1000,
		},
		Search: SearchConfig{
			BaseURL:           "https://html.duckduckgo.com/html/",
			UserAgent:         "Credible/0.1 (+https://github.com/crediblehq/credible)",
			MaxResults:        5,
			Timeout:           15 * time.Second,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Fetch: FetchConfig{
			UserAgent:         "Credible/0.1 (+https://github.com/crediblehq/credible)",
			Timeout:           30 * time.Second,
			MaxBodyBytes:      2_000_000,
			RespectRobots:     true,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Concurrency: ConcurrencyConfig{
			SentenceWorkers: 4,
			VerifyWorkers:   3,
			BatchWorkers:    2,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
