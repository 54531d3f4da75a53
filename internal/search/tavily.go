// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

// Tavily queries the Tavily search API.
type Tavily struct {
	APIKey string

	// Depth is the search_depth parameter: basic or advanced.
	Depth string

	Client *http.Client
}

// NewTavily returns a Tavily backend. An empty depth means "basic".
func NewTavily(apiKey, depth string, client *http.Client) *Tavily {
	if depth == "" {
		depth = "basic"
	}
	return &Tavily{APIKey: apiKey, Depth: depth, Client: client}
}

// Name returns the backend identifier.
func (t *Tavily) Name() string { return "tavily" }

// Search posts one query requesting at most maxResults results. The results
// collection is returned as the service ordered it; a response without one
// yields no results.
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, errors.New("tavily API key is missing: set TAVILY_API_KEY or search.api_key")
	}

	payload, err := json.Marshal(tavilyRequest{
		APIKey:      t.APIKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: t.Depth,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	var tr tavilyResponse
	if err := httputil.DoJSON(ctx, t.Client, req, &tr); err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}

	results := make([]types.SearchResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		results = append(results, types.SearchResult{
			Title:   r.Title,
			Content: r.Content,
			URL:     r.URL,
			Score:   r.Score,
		})
	}
	return results, nil
}

// Tavily API JSON structures.
type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
