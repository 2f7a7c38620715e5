package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiClient implements the Client interface on the Generative Language API.
type geminiClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// newGeminiClient creates a Gemini client authenticated with an API key.
func newGeminiClient(cfg Config) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 300
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &geminiClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: httpTimeout(cfg),
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	InlineData *geminiBlob `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	Contents         []geminiContent        `json:"contents"`
}

type geminiResponse struct {
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Candidates []struct {
		Content      *geminiContent `json:"content"`
		FinishReason string         `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends the prompt followed by the inline image.
func (c *geminiClient) Generate(ctx context.Context, prompt string, image Image) (string, error) {
	parts := []geminiPart{{Text: prompt}}
	if !image.Empty() {
		parts = append(parts, geminiPart{
			InlineData: &geminiBlob{MimeType: image.MIMEType, Data: image.Base64()},
		})
	}

	jsonBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Non-2xx bodies use the standard Google error envelope.
	if err := googleapi.CheckResponse(resp); err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var response geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Candidates) == 0 {
		if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", response.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates returned")
	}

	candidate := response.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("candidate has no content (finish reason %s)", candidate.FinishReason)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("candidate has no text")
	}

	return text.String(), nil
}
