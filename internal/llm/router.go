package llm

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chipsight/chipsight/internal/config"
)

// Router routes completion requests to the primary provider, falling back to
// the remaining providers on failure, with bounded retry per provider.
type Router struct {
	mu         sync.RWMutex
	providers  map[string]Provider
	primary    string
	fallbacks  []string
	maxRetries int
	retryDelay time.Duration
}

// RouterOption configures the router.
type RouterOption func(*Router)

// WithFallbacks sets the fallback provider chain.
func WithFallbacks(providers ...string) RouterOption {
	return func(r *Router) { r.fallbacks = providers }
}

// WithMaxRetries sets the maximum number of retry attempts per provider.
func WithMaxRetries(n int) RouterOption {
	return func(r *Router) { r.maxRetries = n }
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) RouterOption {
	return func(r *Router) { r.retryDelay = d }
}

// NewRouter creates a new LLM router with the given primary provider name.
func NewRouter(primary string, opts ...RouterOption) *Router {
	r := &Router{
		providers:  make(map[string]Provider),
		primary:    primary,
		maxRetries: 2,
		retryDelay: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRouterFromConfig builds a router from application configuration,
// registering every provider that has an API key.
func NewRouterFromConfig(cfg *config.Config, systemPrompt string) (*Router, error) {
	r := NewRouter(cfg.LLM.Primary)

	if cfg.LLM.OpenAIKey != "" {
		p, err := NewOpenAIProvider(ProviderConfig{
			APIKey:       cfg.LLM.OpenAIKey,
			BaseURL:      cfg.LLM.OpenAIBaseURL,
			Model:        cfg.LLM.Model,
			SystemPrompt: systemPrompt,
			Temperature:  cfg.LLM.Temperature,
		})
		if err != nil {
			return nil, err
		}
		r.RegisterProvider(p)
	}

	if cfg.LLM.AnthropicKey != "" {
		model := cfg.LLM.Model
		if cfg.LLM.Primary != ProviderAnthropic {
			model = cfg.LLM.FallbackModel
		}
		p, err := NewAnthropicProvider(ProviderConfig{
			APIKey:       cfg.LLM.AnthropicKey,
			Model:        model,
			SystemPrompt: systemPrompt,
			Temperature:  cfg.LLM.Temperature,
		})
		if err != nil {
			return nil, err
		}
		r.RegisterProvider(p)
	}

	if len(r.providers) == 0 {
		return nil, ErrNoProviders
	}

	// Everything that is not primary becomes a fallback.
	for name := range r.providers {
		if name != r.primary {
			r.fallbacks = append(r.fallbacks, name)
		}
	}
	if _, ok := r.providers[r.primary]; !ok {
		// Primary has no key configured; promote the first fallback.
		r.primary = r.fallbacks[0]
		r.fallbacks = r.fallbacks[1:]
	}

	return r, nil
}

// RegisterProvider adds a provider to the router.
func (r *Router) RegisterProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Name identifies the router as a composite provider.
func (r *Router) Name() string { return "router" }

// Primary returns the name of the primary provider.
func (r *Router) Primary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primary
}

// Complete tries the primary provider, then each fallback in order. Each
// provider gets maxRetries attempts before the router moves on.
func (r *Router) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	r.mu.RLock()
	chain := make([]string, 0, 1+len(r.fallbacks))
	chain = append(chain, r.primary)
	chain = append(chain, r.fallbacks...)
	r.mu.RUnlock()

	var lastErr error
	for _, name := range chain {
		r.mu.RLock()
		p, ok := r.providers[name]
		r.mu.RUnlock()
		if !ok {
			continue
		}

		for attempt := 0; attempt <= r.maxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(r.retryDelay * time.Duration(attempt)):
				}
			}
			out, err := p.Complete(ctx, prompt, maxTokens)
			if err == nil {
				return out, nil
			}
			lastErr = err
			log.Printf("llm: %s attempt %d failed: %v", name, attempt+1, err)
		}
	}

	if lastErr == nil {
		lastErr = ErrNoProviders
	}
	return "", fmt.Errorf("all providers failed: %w", lastErr)
}

// Ping checks the primary provider.
func (r *Router) Ping(ctx context.Context) error {
	r.mu.RLock()
	p, ok := r.providers[r.primary]
	r.mu.RUnlock()
	if !ok {
		return ErrNoProviders
	}
	return p.Ping(ctx)
}
