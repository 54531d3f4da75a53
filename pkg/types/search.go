// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-agent pipeline:
// topics, search results, the question-to-results map, composed reports, and
// per-stage configuration.
package types

import "errors"

// ErrEmptyTopic is returned when a topic is the empty string.
var ErrEmptyTopic = errors.New("topic is empty: enter a research topic")

// ValidateTopic rejects empty topics before they enter the pipeline. Any
// non-empty string is accepted, whitespace included.
func ValidateTopic(topic string) error {
	if topic == "" {
		return ErrEmptyTopic
	}
	return nil
}

// SearchResult is a single web search hit. Every field is optional: a
// provider that omits a field leaves it empty and the report renders it
// as an empty value.
type SearchResult struct {
	// Title is the page title as returned by the search service.
	Title string `json:"title" yaml:"title"`

	// Content is the snippet or extracted page text.
	Content string `json:"content" yaml:"content"`

	// URL links to the source page.
	URL string `json:"url" yaml:"url"`

	// Score is the provider's relevance score, when it reports one.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}
