// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/pdiddy/research-agent/pkg/types"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama calls a local Ollama server through langchaingo.
type Ollama struct {
	Model string
	llm   llms.Model
}

// NewOllama builds an Ollama provider. BaseURL defaults to the local server.
func NewOllama(cfg types.LLMConfig) (*Ollama, error) {
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = defaultOllamaURL
	}

	model, err := ollama.New(ollama.WithModel(cfg.Model), ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("initializing ollama: %w", err)
	}
	return &Ollama{Model: cfg.Model, llm: model}, nil
}

// Complete sends prompt as a single human message.
func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := o.llm.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ollama: empty choices")
	}
	return resp.Choices[0].Content, nil
}
