// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func withTavilyServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	t.Cleanup(func() {
		tavilyAPIURL = old
		ts.Close()
	})
	return ts
}

func TestTavilySearchRequest(t *testing.T) {
	var (
		gotBody tavilyRequest
		gotAuth string
		gotCT   string
	)
	ts := withTavilyServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"query":"q","results":[]}`)
	})

	b := NewTavily("tvly-key", "", ts.Client())
	if _, err := b.Search(context.Background(), "What causes ocean acidification?", 5); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotBody.Query != "What causes ocean acidification?" {
		t.Errorf("query = %q", gotBody.Query)
	}
	if gotBody.MaxResults != 5 {
		t.Errorf("max_results = %d, want 5", gotBody.MaxResults)
	}
	if gotBody.SearchDepth != "basic" {
		t.Errorf("search_depth = %q, want basic", gotBody.SearchDepth)
	}
	if gotAuth != "Bearer tvly-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
}

func TestTavilySearchParsesResultsInOrder(t *testing.T) {
	ts := withTavilyServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"title":"Second","url":"https://two.example","content":"two","score":0.4},
			{"title":"First","url":"https://one.example","content":"one","score":0.9},
			{"title":"No URL","content":"missing url"}
		]}`)
	})

	got, err := NewTavily("k", "advanced", ts.Client()).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "Second" || got[1].Title != "First" {
		t.Errorf("results re-sorted: %+v", got)
	}
	if got[0].Score != 0.4 || got[0].Content != "two" || got[0].URL != "https://two.example" {
		t.Errorf("first result = %+v", got[0])
	}
	if got[2].URL != "" || got[2].Content != "missing url" {
		t.Errorf("missing field result = %+v", got[2])
	}
}

func TestTavilySearchMissingResults(t *testing.T) {
	ts := withTavilyServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"query":"q"}`)
	})

	got, err := NewTavily("k", "", ts.Client()).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty slice", got)
	}
}

func TestTavilySearchHTTPErrorNotRetried(t *testing.T) {
	var calls int32
	ts := withTavilyServer(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"detail":"rate limited"}`)
	})

	_, err := NewTavily("k", "", ts.Client()).Search(context.Background(), "q", 5)
	if err == nil || !strings.Contains(err.Error(), "HTTP 429") {
		t.Errorf("expected HTTP 429 error, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestTavilySearchMissingKey(t *testing.T) {
	_, err := NewTavily(" ", "", nil).Search(context.Background(), "q", 5)
	if err == nil || !strings.Contains(err.Error(), "API key is missing") {
		t.Errorf("expected missing key error, got %v", err)
	}
}

func TestTavilySearchMalformedJSON(t *testing.T) {
	ts := withTavilyServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results": [`)
	})

	_, err := NewTavily("k", "", ts.Client()).Search(context.Background(), "q", 5)
	if err == nil || !strings.Contains(err.Error(), "decoding response") {
		t.Errorf("expected decode error, got %v", err)
	}
}
