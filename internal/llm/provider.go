// Package llm provides a pluggable interface for generative-text backends.
package llm

import (
	"context"
	"fmt"

	"github.com/factchecker/newsvet/internal/config"
)

// CompletionOptions contains options for completion requests.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	Model       string
}

// DefaultCompletionOptions returns sensible defaults: a bounded response and
// a low sampling temperature, prioritizing determinism over creativity.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{
		MaxTokens:   1000,
		Temperature: 0.1,
	}
}

// Provider defines the interface for generative backends. Responses are
// delivered as a finite sequence of text fragments; callers accumulate them
// into one buffer before any parsing.
type Provider interface {
	// CompleteStream generates a completion for the system/user pair,
	// invoking fn once per text fragment as the backend delivers it.
	CompleteStream(ctx context.Context, system, user string, opts CompletionOptions, fn func(fragment string)) error

	// Name returns the provider name.
	Name() string

	// Model returns the default model identifier.
	Model() string
}

// NewProvider creates a backend based on configuration.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
