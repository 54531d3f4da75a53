// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one research run: generate questions for a topic,
// search the web once per question in order, and compose the report.
// Stage failures degrade to empty data and are recorded on the Result; the
// only error Run returns is an invalid topic.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/report"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Stage identifies one step of a run.
type Stage string

const (
	StageQuestions Stage = "questions"
	StageSearch    Stage = "search"
	StageCompose   Stage = "compose"
)

// QuestionGenerator produces research questions for a topic.
type QuestionGenerator interface {
	Generate(ctx context.Context, topic string) ([]string, error)
}

// WebSearcher returns results for one question.
type WebSearcher interface {
	Search(ctx context.Context, question string) ([]types.SearchResult, error)
}

// Progress receives stage status for display. Implementations must not
// block for long; they run on the pipeline goroutine.
type Progress interface {
	StageStarted(stage Stage)
	Searching(question string)
	StageDone(stage Stage)
}

// NopProgress ignores all status updates.
type NopProgress struct{}

func (NopProgress) StageStarted(Stage) {}
func (NopProgress) Searching(string)   {}
func (NopProgress) StageDone(Stage)    {}

// Failure records a degraded stage.
type Failure struct {
	Stage    Stage  `json:"stage" yaml:"stage"`
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	Err      string `json:"error" yaml:"error"`
}

// Result is everything one run produced.
type Result struct {
	Topic     string       `json:"topic" yaml:"topic"`
	Questions []string     `json:"questions" yaml:"questions"`
	QnA       *types.QnA   `json:"qna" yaml:"qna"`
	Report    types.Report `json:"report" yaml:"report"`
	Failures  []Failure    `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Degraded reports whether any stage failed during the run.
func (r *Result) Degraded() bool {
	return len(r.Failures) > 0
}

// Pipeline wires the three stages together.
type Pipeline struct {
	Generator QuestionGenerator
	Searcher  WebSearcher
	Progress  Progress
	Logger    *zap.Logger

	// Now stamps the composed report. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Pipeline with no-op progress and logging.
func New(g QuestionGenerator, s WebSearcher) *Pipeline {
	return &Pipeline{
		Generator: g,
		Searcher:  s,
		Progress:  NopProgress{},
		Logger:    zap.NewNop(),
		Now:       time.Now,
	}
}

// Run executes one research run for topic. Searches are issued one at a
// time in question order. A failed question generation yields a report with
// no question sections; a failed search yields a section with no bullets.
func (p *Pipeline) Run(ctx context.Context, topic string) (*Result, error) {
	if err := types.ValidateTopic(topic); err != nil {
		return nil, err
	}

	progress := p.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	res := &Result{Topic: topic, QnA: &types.QnA{}}

	progress.StageStarted(StageQuestions)
	start := time.Now()
	questions, err := p.Generator.Generate(ctx, topic)
	if err != nil {
		log.Warn("question generation failed", zap.String("topic", topic), zap.Error(err))
		res.Failures = append(res.Failures, Failure{Stage: StageQuestions, Err: err.Error()})
	}
	if questions == nil {
		questions = []string{}
	}
	res.Questions = questions
	log.Debug("questions generated",
		zap.Int("count", len(questions)),
		zap.Duration("elapsed", time.Since(start)))
	progress.StageDone(StageQuestions)

	progress.StageStarted(StageSearch)
	for _, q := range questions {
		progress.Searching(q)
		start := time.Now()
		results, err := p.Searcher.Search(ctx, q)
		if err != nil {
			log.Warn("web search failed", zap.String("question", q), zap.Error(err))
			res.Failures = append(res.Failures, Failure{Stage: StageSearch, Question: q, Err: err.Error()})
			res.QnA.SetFailed(q, err)
			continue
		}
		res.QnA.Set(q, results)
		log.Debug("search complete",
			zap.String("question", q),
			zap.Int("results", len(results)),
			zap.Duration("elapsed", time.Since(start)))
	}
	progress.StageDone(StageSearch)

	progress.StageStarted(StageCompose)
	res.Report = report.New(topic, res.QnA, now())
	progress.StageDone(StageCompose)

	log.Info("report composed",
		zap.String("topic", topic),
		zap.Int("questions", res.QnA.Len()),
		zap.Int("failures", len(res.Failures)))

	return res, nil
}
