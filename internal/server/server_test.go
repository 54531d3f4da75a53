// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/research-agent/internal/archive"
	"github.com/pdiddy/research-agent/internal/pipeline"
	"github.com/pdiddy/research-agent/internal/question"
	"github.com/pdiddy/research-agent/internal/search"
	"github.com/pdiddy/research-agent/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- fakes ---

type fakeLLM struct {
	content string
	err     error
}

func (f fakeLLM) Complete(context.Context, string) (string, error) {
	return f.content, f.err
}

type fakeSearch struct {
	results map[string][]types.SearchResult
	err     error
}

func (f fakeSearch) Name() string { return "fake" }

func (f fakeSearch) Search(_ context.Context, q string, _ int) ([]types.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[q], nil
}

func factory(l fakeLLM, s fakeSearch) PipelineFactory {
	return func(w io.Writer) *pipeline.Pipeline {
		p := pipeline.New(question.New(l, w), search.New(s, 5, w))
		p.Now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
		return p
	}
}

func newTestServer(t *testing.T, f PipelineFactory, opts ...Option) http.Handler {
	t.Helper()
	s, err := New(f, opts...)
	require.NoError(t, err)
	return s.Routes()
}

func postTopic(h http.Handler, topic string) *httptest.ResponseRecorder {
	form := url.Values{"topic": {topic}}
	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var downloadLink = regexp.MustCompile(`href="/reports/([^"]+)\.md"`)

// --- tests ---

func TestNewRequiresFactory(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, factory(fakeLLM{}, fakeSearch{}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Web Research Agent")
	assert.Contains(t, body, `name="topic"`)
	assert.NotContains(t, body, "Download Report")
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, factory(fakeLLM{}, fakeSearch{}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestReportEmptyTopic(t *testing.T) {
	called := false
	f := func(w io.Writer) *pipeline.Pipeline {
		called = true
		return factory(fakeLLM{}, fakeSearch{})(w)
	}
	h := newTestServer(t, f)

	rec := postTopic(h, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a topic.")
	assert.False(t, called, "no pipeline runs for an empty topic")
}

func TestReportWhitespaceTopicRuns(t *testing.T) {
	h := newTestServer(t, factory(fakeLLM{content: "Q?"}, fakeSearch{}))

	rec := postTopic(h, "   ")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Questions generated!")
	assert.NotContains(t, rec.Body.String(), "Please enter a topic.")
}

func TestReportAndDownload(t *testing.T) {
	l := fakeLLM{content: "- What causes it?\n- What are the effects?"}
	s := fakeSearch{results: map[string][]types.SearchResult{
		"What causes it?": {{Title: "Cause", Content: "Emissions.", URL: "https://example.com/cause"}},
	}}
	h := newTestServer(t, factory(l, s))

	rec := postTopic(h, "climate change")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Questions generated!")
	assert.Contains(t, body, "🔍 What causes it?")
	assert.Contains(t, body, "🔍 What are the effects?")
	assert.Contains(t, body, "<h1>Research Report: climate change</h1>")
	assert.Contains(t, body, `<a href="https://example.com/cause">Read More</a>`)
	assert.Contains(t, body, `download="climate_change_report.md"`)
	assert.NotContains(t, body, `class="warning"`)

	m := downloadLink.FindStringSubmatch(body)
	require.Len(t, m, 2)

	dl := httptest.NewRecorder()
	h.ServeHTTP(dl, httptest.NewRequest(http.MethodGet, "/reports/"+m[1]+".md", nil))
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", dl.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="climate_change_report.md"`, dl.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(dl.Body.String(), "# Research Report: climate change\n"))
	assert.Contains(t, dl.Body.String(), "- **Cause**: Emissions.\n  [Read More](https://example.com/cause)\n")
}

func TestReportShowsStageWarnings(t *testing.T) {
	h := newTestServer(t, factory(fakeLLM{err: errors.New("quota exceeded")}, fakeSearch{}))

	rec := postTopic(h, "ocean acidification")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "warning: error with language model: quota exceeded")
	assert.Contains(t, body, "<h1>Research Report: ocean acidification</h1>")
	assert.Contains(t, body, "<h2>Conclusion</h2>")
}

func TestReportSearchFailureStillRenders(t *testing.T) {
	l := fakeLLM{content: "Why?"}
	s := fakeSearch{err: errors.New("HTTP 401")}
	h := newTestServer(t, factory(l, s))

	rec := postTopic(h, "solar")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "warning: web search error: HTTP 401")
	assert.Contains(t, body, "<h2>Why?</h2>")
}

func TestDownloadNotFound(t *testing.T) {
	h := newTestServer(t, factory(fakeLLM{}, fakeSearch{}))

	for _, path := range []string{"/reports/missing.md", "/reports/missing", "/reports/.md"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestReportIsArchived(t *testing.T) {
	store, err := archive.Open(types.ArchiveConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := newTestServer(t, factory(fakeLLM{content: "Q1"}, fakeSearch{}), WithArchive(store))

	rec := postTopic(h, "wind power")
	require.Equal(t, http.StatusOK, rec.Code)

	m := downloadLink.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)

	got, err := store.Get(context.Background(), m[1])
	require.NoError(t, err)
	assert.Equal(t, "wind power", got.Topic)
	assert.Equal(t, 1, got.Questions)

	// A fresh server with the same archive can still serve the download.
	h2 := newTestServer(t, factory(fakeLLM{}, fakeSearch{}), WithArchive(store))
	dl := httptest.NewRecorder()
	h2.ServeHTTP(dl, httptest.NewRequest(http.MethodGet, "/reports/"+m[1]+".md", nil))
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, got.Markdown, dl.Body.String())
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := newTestServer(t, factory(fakeLLM{}, fakeSearch{}), WithLogger(zap.New(core)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/nope.md", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/reports/nope.md", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}

func TestReportStoreEvictsOldest(t *testing.T) {
	s := newReportStore(2)
	s.put(types.Report{ID: "a"})
	s.put(types.Report{ID: "b"})
	s.put(types.Report{ID: "a", Topic: "updated"})
	s.put(types.Report{ID: "c"})

	_, ok := s.get("a")
	assert.False(t, ok)
	b, ok := s.get("b")
	assert.True(t, ok)
	assert.Equal(t, "b", b.ID)
	_, ok = s.get("c")
	assert.True(t, ok)
}

func TestSplitWarnings(t *testing.T) {
	got := splitWarnings("warning: one\n\n  warning: two  \n")
	assert.Equal(t, []string{"warning: one", "warning: two"}, got)
	assert.Nil(t, splitWarnings(""))
}
