// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search issues one web search per research question and returns
// the results in the order the service ranked them.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/research-agent/pkg/types"
)

// DefaultMaxResults is the number of results requested per question.
const DefaultMaxResults = 5

// Provider queries a single web search service. Each backend (Tavily,
// DuckDuckGo) implements this interface.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// NewProvider builds the backend selected by cfg.Backend. The API key must
// already be resolved into cfg.APIKey for backends that need one.
func NewProvider(cfg types.SearchConfig) (Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case types.BackendTavily, "":
		return NewTavily(cfg.APIKey, cfg.Depth, client), nil
	case types.BackendDuckDuckGo:
		return NewDuckDuckGo(cfg.UserAgent, client), nil
	default:
		return nil, fmt.Errorf("unsupported search backend %q: use tavily or duckduckgo", cfg.Backend)
	}
}

// Searcher runs one search per question against a Provider. Results are
// neither cached nor deduplicated, so asking the same question twice issues
// two requests.
type Searcher struct {
	Provider   Provider
	MaxResults int

	// Warn receives user-visible warnings. Nil discards them.
	Warn io.Writer
}

// New returns a Searcher using p with the given result limit. A limit of
// zero or less uses DefaultMaxResults.
func New(p Provider, maxResults int, w io.Writer) *Searcher {
	return &Searcher{Provider: p, MaxResults: maxResults, Warn: w}
}

// Search returns the results for question in provider order. When the
// request fails the failure is written to Warn and Search returns an empty,
// non-nil slice together with the error.
func (s *Searcher) Search(ctx context.Context, question string) ([]types.SearchResult, error) {
	maxResults := s.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	results, err := s.Provider.Search(ctx, question, maxResults)
	if err != nil {
		if s.Warn != nil {
			fmt.Fprintf(s.Warn, "warning: web search error: %v\n", err)
		}
		return []types.SearchResult{}, fmt.Errorf("%s search: %w", s.Provider.Name(), err)
	}
	if results == nil {
		results = []types.SearchResult{}
	}
	return results, nil
}
