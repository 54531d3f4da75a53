// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps language-model services behind a single-turn completion
// interface so the question generator can be tested without network access.
package llm

import (
	"context"
	"fmt"

	"github.com/pdiddy/research-agent/pkg/types"
)

// CompletionProvider sends one user-role message and returns the model's
// free-text reply.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New builds the provider selected by cfg.Provider. The API key must
// already be resolved into cfg.APIKey for providers that need one.
func New(cfg types.LLMConfig) (CompletionProvider, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		p, err := NewOpenAI(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case types.ProviderOllama:
		p, err := NewOllama(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q: use openai or ollama", cfg.Provider)
	}
}
