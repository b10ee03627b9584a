package narrative

import (
	"context"
	"fmt"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Options tunes a single completion.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Provider sends one system and user prompt pair to a language model.
//
// Implementations MUST be safe for concurrent use.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Complete returns the generated text or an error.
	Complete(ctx context.Context, system, user string, opts Options) (string, error)
}

// ProviderConfig holds the connection settings for one provider.
type ProviderConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

// NewProvider builds the provider named by cfg.Name.
//
// Postcondition: returns a non-nil Provider or an error naming the problem.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown narrative provider %q", cfg.Name)
	}
}
