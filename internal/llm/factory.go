package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for an LLM provider client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// NewClient creates a rate-limited client for the configured provider.
func NewClient(_ context.Context, cfg Config) (Client, error) {
	var client Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "gemini", "":
		client, err = newGeminiClient(cfg)
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &limitedClient{
		client:  client,
		limiter: newRateLimiter(cfg.RateLimit),
	}, nil
}

// limitedClient gates every call through a token bucket.
type limitedClient struct {
	client  Client
	limiter *rateLimiter
}

func (c *limitedClient) Generate(ctx context.Context, prompt string, image Image) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}
	return c.client.Generate(ctx, prompt, image)
}

// Close stops the limiter's refill goroutine.
func (c *limitedClient) Close() error {
	c.limiter.Close()
	return nil
}

func httpTimeout(cfg Config) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return 60 * time.Second
}
