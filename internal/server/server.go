// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server is the browser front end for research runs. Each topic
// submitted through the form runs one pipeline and the page shows the
// rendered report with a Markdown download link.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/archive"
	"github.com/pdiddy/research-agent/internal/pipeline"
	"github.com/pdiddy/research-agent/internal/report"
	"github.com/pdiddy/research-agent/pkg/types"
)

// maxKeptReports bounds the in-memory download cache.
const maxKeptReports = 100

// PipelineFactory builds a pipeline whose stages write user-visible
// warnings to w. A fresh pipeline is built for every request.
type PipelineFactory func(w io.Writer) *pipeline.Pipeline

// Server serves the research UI.
type Server struct {
	newPipeline PipelineFactory
	archive     *archive.Store
	logger      *zap.Logger
	timeout     time.Duration
	reports     *reportStore
}

// Option configures a Server.
type Option func(*Server)

// WithArchive stores every generated report in a.
func WithArchive(a *archive.Store) Option {
	return func(s *Server) { s.archive = a }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTimeout bounds each report generation.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New returns a Server that runs pipelines built by f.
func New(f PipelineFactory, opts ...Option) (*Server, error) {
	if f == nil {
		return nil, errors.New("pipeline factory required")
	}
	s := &Server{
		newPipeline: f,
		logger:      zap.NewNop(),
		timeout:     5 * time.Minute,
		reports:     newReportStore(maxKeptReports),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Routes returns the HTTP handler for the UI.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /report", s.handleReport)
	mux.HandleFunc("GET /reports/{file}", s.handleDownload)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return s.logMiddleware(mux)
}

// --- Handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, pageData{})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	topic := r.FormValue("topic")
	if err := types.ValidateTopic(topic); err != nil {
		s.render(w, http.StatusBadRequest, pageData{Warnings: []string{"Please enter a topic."}})
		return
	}

	var warnings bytes.Buffer
	p := s.newPipeline(&warnings)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	res, err := p.Run(ctx, topic)
	if err != nil {
		s.render(w, http.StatusBadRequest, pageData{Topic: topic, Warnings: []string{err.Error()}})
		return
	}

	rep := res.Report
	if s.archive != nil {
		saved, err := s.archive.Save(ctx, rep)
		if err != nil {
			s.logger.Warn("archiving report failed", zap.String("topic", topic), zap.Error(err))
			fmt.Fprintf(&warnings, "warning: report was not archived: %v\n", err)
		} else {
			rep = saved
		}
	}
	if rep.ID == "" {
		rep.ID = newReportID()
	}
	s.reports.put(rep)

	html, err := report.HTML(rep.Markdown)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, pageData{
		Topic:      topic,
		Warnings:   splitWarnings(warnings.String()),
		ID:         rep.ID,
		Questions:  res.Questions,
		ReportHTML: template.HTML(html),
		Filename:   rep.Filename,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutSuffix(r.PathValue("file"), ".md")
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	rep, found := s.reports.get(id)
	if !found && s.archive != nil {
		archived, err := s.archive.Get(r.Context(), id)
		if err == nil {
			rep, found = archived, true
		} else if !errors.Is(err, archive.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if !found {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	filename := rep.Filename
	if filename == "" {
		filename = report.Filename(rep.Topic)
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	io.WriteString(w, rep.Markdown)
}

// --- Helpers ---

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// splitWarnings turns the stage warning stream into one entry per line.
func splitWarnings(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func newReportID() string {
	return strings.ReplaceAll(time.Now().UTC().Format("20060102T150405.000000000"), ".", "")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// reportStore keeps the most recent reports for download.
type reportStore struct {
	mu      sync.Mutex
	max     int
	order   []string
	reports map[string]types.Report
}

func newReportStore(max int) *reportStore {
	return &reportStore{max: max, reports: make(map[string]types.Report)}
}

func (s *reportStore) put(r types.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r
	for len(s.order) > s.max {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *reportStore) get(id string) (types.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	return r, ok
}
