package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider implements Provider for Anthropic's Messages API.
type AnthropicProvider struct {
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	temperature  float64
	client       *http.Client
}

// NewAnthropicProvider creates an Anthropic provider.
func NewAnthropicProvider(cfg ProviderConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	p := &AnthropicProvider{
		apiKey:       cfg.APIKey,
		baseURL:      "https://api.anthropic.com/v1",
		model:        "claude-sonnet-4-20250514",
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		client:       &http.Client{Timeout: 120 * time.Second},
	}
	if cfg.BaseURL != "" {
		p.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model != "" {
		p.model = cfg.Model
	}
	if cfg.Timeout > 0 {
		p.client.Timeout = cfg.Timeout
	}
	return p, nil
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

// Ping sends a minimal request to verify the API key.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.Complete(ctx, "ping", 1)
	if err != nil && !strings.Contains(err.Error(), "max_tokens") {
		return err
	}
	return nil
}

// Complete sends a messages request and returns the response text.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := anthropicRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		System:    p.systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}
	if p.temperature > 0 {
		body.Temperature = &p.temperature
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr anthropicErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return "", fmt.Errorf("%w: %s", ErrNoAPIKey, apiErr.Error.Message)
			case http.StatusTooManyRequests, 529:
				return "", fmt.Errorf("%w: %s", ErrRateLimit, apiErr.Error.Message)
			}
			return "", fmt.Errorf("anthropic: API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var result anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}

	var sb strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// ── Internal Types ──

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
