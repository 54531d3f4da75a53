// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/llm"
	"github.com/pdiddy/research-agent/internal/pipeline"
	"github.com/pdiddy/research-agent/internal/question"
	"github.com/pdiddy/research-agent/internal/search"
	"github.com/pdiddy/research-agent/pkg/types"
)

// stages holds the constructed backends shared by every run.
type stages struct {
	llm    llm.CompletionProvider
	search search.Provider
	max    int
}

// buildStages constructs the stages for report and serve. Package-level var
// for test substitution.
var buildStages = newStages

// newStages builds the language model and search backends from cfg.
// Credentials must already be resolved. A missing model key is not fatal:
// every run then reports the failure as a warning and continues without
// questions.
func newStages(cfg types.Config) (*stages, error) {
	provider, err := llm.New(cfg.LLM)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		logger.Warn("language model unavailable", zap.Error(err))
		provider = unavailableLLM{err: err}
	} else if err != nil {
		return nil, err
	}
	backend, err := search.NewProvider(cfg.Search)
	if err != nil {
		return nil, err
	}
	return &stages{llm: provider, search: backend, max: cfg.Search.MaxResults}, nil
}

// pipeline returns a pipeline whose stages write warnings to w.
func (s *stages) pipeline(w io.Writer) *pipeline.Pipeline {
	p := pipeline.New(
		question.New(s.llm, w),
		search.New(s.search, s.max, w),
	)
	p.Logger = logger
	return p
}

// unavailableLLM fails every completion with the construction error.
type unavailableLLM struct {
	err error
}

func (u unavailableLLM) Complete(context.Context, string) (string, error) {
	return "", u.err
}
