package cli

import (
	"fmt"
	"os"

	"github.com/crediblehq/credible/internal/cache"
	"github.com/crediblehq/credible/internal/fetch"
	"github.com/crediblehq/credible/internal/llm"
	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/normalize"
	"github.com/crediblehq/credible/internal/pipeline"
	"github.com/crediblehq/credible/internal/search"
	"github.com/crediblehq/credible/internal/store"
	"github.com/crediblehq/credible/internal/transcript"
	"github.com/crediblehq/credible/internal/verify"
)

// components holds the wired-up pieces the analysis commands need. The
// LLM client, caches, search provider, fetcher and transcript loader
// are shared; the claim store and everything bound to it belong to one
// analysis.
type components struct {
	cfg         model.Config
	client      llm.Client
	provider    search.Provider
	fetcher     *fetch.Fetcher
	transcripts *transcript.Loader
	renderer    *pipeline.Renderer

	store    *store.Store
	pipeline *pipeline.Pipeline
	verifier *verify.Verifier
}

// buildComponents assembles the shared infrastructure and one analysis
// set from configuration. The LLM API key comes from config or the
// OPENAI_API_KEY environment variable.
func buildComponents(cfg model.Config) (*components, error) {
	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	client, err := llm.NewOpenAIClient(llm.Config{
		Model:     cfg.LLM.Model,
		APIKey:    apiKey,
		BaseURL:   cfg.LLM.BaseURL,
		Timeout:   cfg.LLM.Timeout,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemory(cfg.Cache.TTL, cfg.Cache.TTL)
	}

	comps := &components{
		cfg:         cfg,
		client:      client,
		provider:    search.NewDuckDuckGo(cfg.Search, c, cfg.Cache.TTL),
		fetcher:     fetch.New(cfg.Fetch, c, cfg.Cache.TTL),
		transcripts: transcript.New(cfg.Fetch, c, cfg.Cache.TTL),
		renderer:    pipeline.NewRenderer(cfg.Output.IncludeFooter),
	}
	comps.bindStore(store.New())
	return comps, nil
}

// newAnalysis returns components bound to a fresh claim store, sharing
// the client, caches, provider and fetcher. Batch runs use one per
// article so reports stay isolated.
func (c *components) newAnalysis() *components {
	out := *c
	out.bindStore(store.New())
	return &out
}

func (c *components) bindStore(s *store.Store) {
	c.store = s
	c.pipeline = pipeline.New(
		llm.NewLabeler(c.client),
		normalize.New(llm.NewFieldExtractor(c.client)),
		s,
		c.cfg.Concurrency.SentenceWorkers,
	)
	c.verifier = verify.New(s, c.provider, llm.NewVerdictSynthesizer(c.client), c.cfg.Concurrency.VerifyWorkers)
}
