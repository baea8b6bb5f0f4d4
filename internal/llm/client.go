// Package llm wraps the language-model collaborators: sentence
// labeling, claim field extraction and verdict synthesis. All three run
// over one minimal chat-completion interface so tests can substitute a
// fake client.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal chat-completion surface the pipeline needs
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config holds LLM client configuration
type Config struct {
	// Model name (OpenAI-compatible)
	Model string

	// APIKey for the API
	APIKey string

	// BaseURL for custom OpenAI-compatible endpoints (e.g. a local
	// server); empty uses the default
	BaseURL string

	// Timeout per request
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Model:     openai.GPT4oMini,
		Timeout:   30 * time.Second,
		MaxTokens: 1000,
	}
}

// OpenAIClient implements Client against the OpenAI chat API
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient creates a new OpenAI-backed client
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Complete sends one system+user exchange and returns the trimmed
// response text. Temperature is pinned low: every call site expects
// deterministic structured output, not prose.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	model := c.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := c.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := c.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	}

	resp, err := c.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
