// Package llm provides vision model clients used to classify waste photos.
// It supports Gemini, OpenAI and Anthropic, with a shared rate limiter.
// Clients return raw model text; structured parsing lives in package verify.
package llm
