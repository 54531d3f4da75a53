// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// QnAEntry pairs one generated question with the results found for it.
type QnAEntry struct {
	Question string         `json:"question" yaml:"question"`
	Results  []SearchResult `json:"results" yaml:"results"`

	// Err holds the search failure for this question, if any. An entry with
	// no results and an empty Err means the search succeeded but found nothing.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the search for this question failed.
func (e QnAEntry) Failed() bool {
	return e.Err != ""
}

// QnA maps questions to their search results in generation order. Setting a
// question that is already present replaces its results but keeps its
// original position. The zero value is ready to use.
type QnA struct {
	entries []QnAEntry
	index   map[string]int
}

// Set records results for question. A nil results slice is stored as empty.
func (q *QnA) Set(question string, results []SearchResult) {
	q.put(QnAEntry{Question: question, Results: results})
}

// SetFailed records that the search for question failed with err.
func (q *QnA) SetFailed(question string, err error) {
	e := QnAEntry{Question: question}
	if err != nil {
		e.Err = err.Error()
	}
	q.put(e)
}

func (q *QnA) put(e QnAEntry) {
	if e.Results == nil {
		e.Results = []SearchResult{}
	}
	if q.index == nil {
		q.index = make(map[string]int)
	}
	if i, ok := q.index[e.Question]; ok {
		q.entries[i] = e
		return
	}
	q.index[e.Question] = len(q.entries)
	q.entries = append(q.entries, e)
}

// Get returns the results recorded for question.
func (q *QnA) Get(question string) ([]SearchResult, bool) {
	i, ok := q.index[question]
	if !ok {
		return nil, false
	}
	return q.entries[i].Results, true
}

// Len returns the number of distinct questions.
func (q *QnA) Len() int {
	return len(q.entries)
}

// Entries returns a copy of the entries in insertion order.
func (q *QnA) Entries() []QnAEntry {
	out := make([]QnAEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

// MarshalJSON encodes the map as an ordered array of entries.
func (q QnA) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Entries())
}

// MarshalYAML encodes the map as an ordered sequence of entries.
func (q QnA) MarshalYAML() (any, error) {
	return q.Entries(), nil
}
