// Package llm provides a unified interface for the LLM backends used by the
// query pipeline (OpenAI-compatible and Anthropic), plus routing with
// fallback and the layered response-parsing helpers shared by components
// that request strict JSON output.
package llm

import (
	"context"
	"errors"
	"time"
)

// Provider names for routing and configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Common errors returned by LLM providers.
var (
	ErrNoAPIKey      = errors.New("llm: API key not configured")
	ErrRateLimit     = errors.New("llm: rate limit exceeded")
	ErrProviderDown  = errors.New("llm: provider unavailable")
	ErrEmptyResponse = errors.New("llm: empty response")
	ErrNoProviders   = errors.New("llm: no providers configured")
)

// Provider is the interface every LLM backend implements. The pipeline only
// needs single request/response completions; there is no streaming and no
// tool calling.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai").
	Name() string

	// Complete sends the fixed system prompt plus the given user prompt and
	// returns the completion text.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Ping checks that the provider is reachable and the API key is valid.
	Ping(ctx context.Context) error
}

// ProviderConfig holds common configuration for creating an LLM provider.
type ProviderConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	Temperature  float64
	Timeout      time.Duration
}

// Token budgets for the pipeline's LLM calls. The narrative call gets a much
// larger budget than the structured helper calls.
const (
	IntentTokens    = 200
	FilterTokens    = 300
	SummaryTokens   = 150
	SynthesisTokens = 1200
	NarrativeTokens = 4096
)
